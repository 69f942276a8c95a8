package observability

import (
	"context"
	"sync"
	"time"
)

// Snapshot is a point-in-time copy of Stats counters.
type Snapshot struct {
	StartedAt     time.Time `json:"started_at"`
	Probes        int       `json:"probes"`
	ProbeErrors   int       `json:"probe_errors"`
	Skipped       int       `json:"skipped"`
	Placed        int       `json:"placed"`
	Rejected      int       `json:"rejected"`
	Passes        int       `json:"passes"`
	LastPass      string    `json:"last_pass,omitempty"`
	Requests      int       `json:"requests"`
	RequestErrors int       `json:"request_errors"`
	LastPixel     *Pixel    `json:"last_pixel,omitempty"`
}

// Pixel describes the most recent accepted write.
type Pixel struct {
	X     int       `json:"x"`
	Y     int       `json:"y"`
	Color int       `json:"color"`
	At    time.Time `json:"at"`
}

// Stats counts placement and HTTP events. It implements both PlacementHooks
// and HTTPHooks and is safe for concurrent use.
type Stats struct {
	mu   sync.Mutex
	snap Snapshot
	now  func() time.Time
}

// NewStats creates an empty Stats whose clock starts now.
func NewStats() *Stats {
	return &Stats{snap: Snapshot{StartedAt: time.Now()}, now: time.Now}
}

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snap
	if snap.LastPixel != nil {
		p := *snap.LastPixel
		snap.LastPixel = &p
	}
	return snap
}

func (s *Stats) OnProbe(_ context.Context, _, _ int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Probes++
	if err != nil {
		s.snap.ProbeErrors++
	}
}

func (s *Stats) OnSkip(context.Context, int, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Skipped++
}

func (s *Stats) OnPlaced(_ context.Context, x, y, color int, rejected bool, _ time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rejected {
		s.snap.Rejected++
		return
	}
	s.snap.Placed++
	s.snap.LastPixel = &Pixel{X: x, Y: y, Color: color, At: s.now()}
}

func (s *Stats) OnPassComplete(_ context.Context, pass int, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Passes = pass
	s.snap.LastPass = d.Round(time.Second).String()
}

func (s *Stats) OnRequest(context.Context, string, string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Requests++
}

func (s *Stats) OnResponse(context.Context, string, string, string, int, time.Duration) {}

func (s *Stats) OnError(context.Context, string, string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.RequestErrors++
}

var (
	_ PlacementHooks = (*Stats)(nil)
	_ HTTPHooks      = (*Stats)(nil)
)
