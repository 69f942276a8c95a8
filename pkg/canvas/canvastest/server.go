// Package canvastest provides an in-memory canvas service for tests.
package canvastest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
)

// SessionCookie is the cookie set by a successful login.
const SessionCookie = "reddit_session"

// Request records one call received by the server.
type Request struct {
	Method  string
	Path    string
	X, Y    int
	Color   int
	Modhash string
	Agent   string
	Cookie  string
}

// Pixel is the stored state of one canvas pixel.
type Pixel struct {
	Color    int
	UserName string
}

// DrawReply scripts the response to one write. A nil Error means accepted.
type DrawReply struct {
	Status      int // 0 means 200
	Error       any
	WaitSeconds any
	Raw         string // sent verbatim when set
}

// Server is a fake canvas API backed by httptest.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	requests    []Request
	users       map[string]string
	pixels      map[[2]int]Pixel
	drawQueue   []DrawReply
	cooldown    int
	probeStatus int
	loginStatus int
	modhash     string
}

// NewServer starts a server that accepts the given username/password pairs.
func NewServer(users map[string]string) *Server {
	s := &Server{
		users:   users,
		pixels:  make(map[[2]int]Pixel),
		modhash: "modhash-123",
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login/", s.handleLogin)
	mux.HandleFunc("/api/place/pixel.json", s.handlePixel)
	mux.HandleFunc("/api/place/draw.json", s.handleDraw)
	s.Server = httptest.NewServer(mux)
	return s
}

// Modhash returns the token handed out at login.
func (s *Server) Modhash() string { return s.modhash }

// SetPixel stores the state returned by probes of (x, y).
func (s *Server) SetPixel(x, y int, p Pixel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pixels[[2]int{x, y}] = p
}

// Pixel returns the stored state of (x, y).
func (s *Server) Pixel(x, y int) (Pixel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pixels[[2]int{x, y}]
	return p, ok
}

// QueueDraw scripts the next write responses, in order.
func (s *Server) QueueDraw(replies ...DrawReply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawQueue = append(s.drawQueue, replies...)
}

// SetCooldown sets wait_seconds for unscripted accepted writes.
func (s *Server) SetCooldown(seconds int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cooldown = seconds
}

// SetProbeStatus makes every probe answer with status (0 restores 200).
func (s *Server) SetProbeStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.probeStatus = status
}

// SetLoginStatus makes every login answer with status (0 restores 200).
func (s *Server) SetLoginStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loginStatus = status
}

// Requests returns a copy of every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count returns how many requests matched method and path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (s *Server) record(r *http.Request) Request {
	_ = r.ParseForm()
	req := Request{
		Method:  r.Method,
		Path:    r.URL.Path,
		Modhash: r.Header.Get("X-Modhash"),
		Agent:   r.Header.Get("User-Agent"),
	}
	req.X, _ = strconv.Atoi(r.Form.Get("x"))
	req.Y, _ = strconv.Atoi(r.Form.Get("y"))
	req.Color, _ = strconv.Atoi(r.Form.Get("color"))
	if c, err := r.Cookie(SessionCookie); err == nil {
		req.Cookie = c.Value
	}
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	return req
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.record(r)
	s.mu.Lock()
	status := s.loginStatus
	s.mu.Unlock()
	if status != 0 {
		http.Error(w, "unavailable", status)
		return
	}

	user := strings.TrimPrefix(r.URL.Path, "/api/login/")
	if r.PostForm.Get("api_type") != "json" || r.PostForm.Get("user") != user {
		writeJSON(w, map[string]any{"json": map[string]any{
			"errors": [][]any{{"BAD_REQUEST", "malformed login", "user"}},
		}})
		return
	}
	if want, ok := s.users[user]; !ok || want != r.PostForm.Get("passwd") {
		writeJSON(w, map[string]any{"json": map[string]any{
			"errors": [][]any{{"WRONG_PASSWORD", "wrong password", "passwd"}},
		}})
		return
	}

	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "session-" + user, Path: "/"})
	writeJSON(w, map[string]any{"json": map[string]any{
		"errors": [][]any{},
		"data":   map[string]any{"modhash": s.modhash, "need_https": false},
	}})
}

func (s *Server) handlePixel(w http.ResponseWriter, r *http.Request) {
	req := s.record(r)
	s.mu.Lock()
	status := s.probeStatus
	p, ok := s.pixels[[2]int{req.X, req.Y}]
	s.mu.Unlock()

	if status != 0 {
		http.Error(w, "probe unavailable", status)
		return
	}
	if !ok {
		writeJSON(w, map[string]any{"x": req.X, "y": req.Y})
		return
	}
	writeJSON(w, map[string]any{"x": req.X, "y": req.Y, "color": p.Color, "user_name": p.UserName})
}

func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	req := s.record(r)
	s.mu.Lock()
	var reply DrawReply
	scripted := len(s.drawQueue) > 0
	if scripted {
		reply, s.drawQueue = s.drawQueue[0], s.drawQueue[1:]
	} else {
		reply = DrawReply{WaitSeconds: s.cooldown}
	}
	if reply.Error == nil && reply.Raw == "" && (reply.Status == 0 || reply.Status == http.StatusOK) {
		s.pixels[[2]int{req.X, req.Y}] = Pixel{Color: req.Color, UserName: strings.TrimPrefix(req.Cookie, "session-")}
	}
	s.mu.Unlock()

	if reply.Status != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(reply.Status)
	}
	if reply.Raw != "" {
		w.Write([]byte(reply.Raw))
		return
	}
	body := map[string]any{"wait_seconds": reply.WaitSeconds}
	if reply.WaitSeconds == nil {
		body["wait_seconds"] = 0
	}
	if reply.Error != nil {
		body["error"] = reply.Error
	}
	writeJSON(w, body)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
