package cli

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/placer/pkg/canvas/canvastest"
	"github.com/matzehuels/placer/pkg/config"
	"github.com/matzehuels/placer/pkg/errors"
	"github.com/matzehuels/placer/pkg/session"
)

func newTestCLI(t *testing.T) (*CLI, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, logs bytes.Buffer
	c := New(&logs, LogInfo)
	c.Out = &out
	c.Err = io.Discard
	c.sleep = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }
	return c, &out, &logs
}

func execute(c *CLI, args ...string) error {
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(c.Out)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

// writeImage saves a 2x1 PNG: a red pixel and a transparent one.
func writeImage(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{229, 0, 0, 255})
	img.SetNRGBA(1, 0, color.NRGBA{0, 0, 0, 0})

	path := filepath.Join(t.TempDir(), "tiny.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func newCanvas(t *testing.T) *canvastest.Server {
	t.Helper()
	srv := canvastest.NewServer(map[string]string{"alice": "hunter2"})
	t.Cleanup(srv.Close)
	t.Setenv("PLACER_BASE_URL", srv.URL)
	return srv
}

func TestRootRequiresCredentials(t *testing.T) {
	for _, args := range [][]string{{}, {"alice"}, {"alice", "pw", "extra"}} {
		c, _, _ := newTestCLI(t)
		err := execute(c, args...)
		if !errors.Is(err, errors.ErrCodeUsage) {
			t.Errorf("args %q: error = %v, want USAGE", args, err)
		}
	}
}

func TestRunLoginFailure(t *testing.T) {
	srv := newCanvas(t)
	c, _, _ := newTestCLI(t)

	err := execute(c, "--image", writeImage(t), "--passes", "1", "alice", "wrong")
	if !errors.Is(err, errors.ErrCodeAuthFailed) {
		t.Fatalf("error = %v, want AUTH_FAILED", err)
	}
	if msg := errors.UserMessage(err); msg != "Error logging in: wrong password" {
		t.Errorf("UserMessage() = %q", msg)
	}
	if n := srv.Count(http.MethodGet, "/api/place/pixel.json"); n != 0 {
		t.Errorf("probes after failed login = %d, want 0", n)
	}
}

func TestRunPlacesImage(t *testing.T) {
	srv := newCanvas(t)
	c, out, logs := newTestCLI(t)

	err := execute(c, "--image", writeImage(t), "--passes", "1",
		"--origin-x", "10", "--origin-y", "20", "--seed", "7", "alice", "hunter2")
	if err != nil {
		t.Fatalf("execute() error: %v", err)
	}

	if p, ok := srv.Pixel(10, 20); !ok || p.Color != 5 || p.UserName != "alice" {
		t.Errorf("pixel (10, 20) = %+v, %v; want color 5 by alice", p, ok)
	}
	if _, ok := srv.Pixel(11, 20); ok {
		t.Error("transparent pixel should not be written")
	}
	if !strings.Contains(out.String(), "Placed color: waiting 1 seconds.") {
		t.Errorf("output missing countdown:\n%s", out.String())
	}
	for _, want := range []string{"Logged in as alice", "Placing color #5 at (10, 20)", "All pixels placed.", "run="} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("logs missing %q:\n%s", want, logs.String())
		}
	}
}

func TestRunRemembersSession(t *testing.T) {
	srv := newCanvas(t)
	store := "file:" + t.TempDir()
	img := writeImage(t)

	for range 2 {
		c, _, _ := newTestCLI(t)
		err := execute(c, "--image", img, "--passes", "1", "--remember", "--session-store", store, "alice", "hunter2")
		if err != nil {
			t.Fatalf("execute() error: %v", err)
		}
	}

	if n := srv.Count(http.MethodPost, "/api/login/alice"); n != 1 {
		t.Errorf("logins = %d, want 1", n)
	}
	last := srv.Requests()[len(srv.Requests())-1]
	if last.Modhash != srv.Modhash() || last.Cookie != "session-alice" {
		t.Errorf("resumed request = %+v, want login modhash and cookie", last)
	}
}

func TestRunPrunesExpiredSessions(t *testing.T) {
	newCanvas(t)
	dir := t.TempDir()
	fs, err := session.NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.Set(context.Background(), session.New("bob", "m", nil, -time.Hour)); err != nil {
		t.Fatal(err)
	}

	c, _, _ := newTestCLI(t)
	err = execute(c, "--image", writeImage(t), "--passes", "1", "--remember", "--session-store", "file:"+dir, "alice", "hunter2")
	if err != nil {
		t.Fatalf("execute() error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "bob.json")); !os.IsNotExist(err) {
		t.Errorf("expired session for bob still on disk (stat error %v)", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "alice.json")); err != nil {
		t.Errorf("alice session not saved: %v", err)
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	newCanvas(t)
	c, _, _ := newTestCLI(t)

	err := execute(c, "--metric", "hsv", "alice", "hunter2")
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestRunRejectsMissingImage(t *testing.T) {
	newCanvas(t)
	c, _, _ := newTestCLI(t)

	err := execute(c, "--image", filepath.Join(t.TempDir(), "none.png"), "alice", "hunter2")
	if !errors.Is(err, errors.ErrCodeInvalidImage) {
		t.Errorf("error = %v, want INVALID_IMAGE", err)
	}
}

func TestPaletteCommand(t *testing.T) {
	c, out, _ := newTestCLI(t)
	if err := execute(c, "palette"); err != nil {
		t.Fatalf("palette error: %v", err)
	}
	for _, want := range []string{"Palette", "#ffffff", "#820080"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestPreviewCommand(t *testing.T) {
	c, out, _ := newTestCLI(t)
	if err := execute(c, "preview", "--image", writeImage(t)); err != nil {
		t.Fatalf("preview error: %v", err)
	}
	for _, want := range []string{"2x1", "png", "1 pixels"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestLogoutCommand(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	fs, err := session.NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.Set(ctx, session.New("alice", "m", nil, time.Hour)); err != nil {
		t.Fatal(err)
	}

	c, out, _ := newTestCLI(t)
	if err := execute(c, "logout", "--session-store", "file:"+dir, "alice"); err != nil {
		t.Fatalf("logout error: %v", err)
	}
	if got, _ := fs.Get(ctx, "alice"); got != nil {
		t.Error("session should be deleted")
	}
	if !strings.Contains(out.String(), "Logged out alice") {
		t.Errorf("output = %q", out.String())
	}
}

func TestVersionFlag(t *testing.T) {
	c, out, _ := newTestCLI(t)
	if err := execute(c, "--version"); err != nil {
		t.Fatalf("--version error: %v", err)
	}
	if !strings.Contains(out.String(), "placer version") {
		t.Errorf("output = %q", out.String())
	}
}

func TestLoginErrorKeepsCode(t *testing.T) {
	err := loginError(errors.New(errors.ErrCodeTransport, "HTTP status 503"))
	if !errors.Is(err, errors.ErrCodeTransport) {
		t.Errorf("code = %q, want TRANSPORT", errors.GetCode(err))
	}
	if msg := errors.UserMessage(err); msg != "Error logging in: HTTP status 503" {
		t.Errorf("UserMessage() = %q", msg)
	}
}

func TestRunFlagDefaultsMatchConfig(t *testing.T) {
	c, _, _ := newTestCLI(t)
	flags := c.RootCommand().Flags()
	def := config.Default()

	tests := []struct {
		flag string
		want string
	}{
		{"origin-x", strconv.Itoa(def.Origin.X)},
		{"origin-y", strconv.Itoa(def.Origin.Y)},
		{"metric", def.Metric},
		{"max-attempts", strconv.Itoa(def.MaxAttempts)},
	}
	for _, tt := range tests {
		f := flags.Lookup(tt.flag)
		if f == nil {
			t.Fatalf("flag --%s not registered", tt.flag)
		}
		if f.DefValue != tt.want {
			t.Errorf("--%s default = %q, want %q", tt.flag, f.DefValue, tt.want)
		}
	}
}
