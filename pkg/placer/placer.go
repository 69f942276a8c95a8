package placer

import (
	"context"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/placer/pkg/canvas"
	"github.com/matzehuels/placer/pkg/errors"
	"github.com/matzehuels/placer/pkg/observability"
)

// Default timings.
const (
	DefaultErrorBackoff   = 5 * time.Second
	DefaultCooldownBuffer = 2 * time.Second
	DefaultMaxAttempts    = 10
)

// Canvas is the authenticated API a Placer needs. *canvas.Session
// implements it.
type Canvas interface {
	Username() string
	Pixel(ctx context.Context, x, y int) (*canvas.PixelState, error)
	Draw(ctx context.Context, x, y, color int) (*canvas.DrawResult, error)
}

var _ Canvas = (*canvas.Session)(nil)

// Placer writes single pixels and waits out their cooldowns.
type Placer struct {
	Logger   *log.Logger
	Progress Progress
	Sleep    func(ctx context.Context, d time.Duration) error

	ErrorBackoff   time.Duration // pause after a failed probe or write
	CooldownBuffer time.Duration // added to every reported cooldown
	MaxAttempts    int           // writes per pixel before giving up
}

// New returns a Placer with default timings, logging to logger and printing
// countdowns to w.
func New(logger *log.Logger, w io.Writer) *Placer {
	return &Placer{
		Logger:         logger,
		Progress:       &LineProgress{W: w},
		Sleep:          Sleep,
		ErrorBackoff:   DefaultErrorBackoff,
		CooldownBuffer: DefaultCooldownBuffer,
		MaxAttempts:    DefaultMaxAttempts,
	}
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// PlacePixel brings the pixel at absolute (x, y) to palette index desired.
//
// Probe and write failures are logged and followed by the error backoff; the
// pixel is then left for the next pass and nil is returned. A non-nil error
// means ctx was cancelled or every write attempt was rejected (a
// *errors.RejectedError).
func (p *Placer) PlacePixel(ctx context.Context, c Canvas, x, y, desired int) error {
	hooks := observability.Placement()
	maxAttempts := max(p.MaxAttempts, 1)

	for attempt := 1; ; attempt++ {
		state, err := c.Pixel(ctx, x, y)
		hooks.OnProbe(ctx, x, y, err)
		if err != nil {
			return p.fail(ctx, "probe", x, y, err)
		}

		if state.Color == desired {
			p.Logger.Infof("Skipping pixel (%d, %d): color #%d set by %s", x, y, desired, state.Owner())
			hooks.OnSkip(ctx, x, y, desired)
			return nil
		}

		p.Logger.Infof("Placing color #%d at (%d, %d)", desired, x, y)
		res, err := c.Draw(ctx, x, y, desired)
		if err != nil {
			return p.fail(ctx, "draw", x, y, err)
		}

		wait := time.Duration(res.WaitSeconds)*time.Second + p.CooldownBuffer
		hooks.OnPlaced(ctx, x, y, desired, res.Rejected, wait)

		format := "Placed color: waiting %d seconds."
		if res.Rejected {
			format = "Cooldown already active: waiting %d seconds."
			p.Logger.Debugf("Write to (%d, %d) rejected: %s", x, y, res.Reason)
		}
		if err := p.countdown(ctx, format, wait); err != nil {
			return err
		}

		if !res.Rejected {
			return nil
		}
		if attempt >= maxAttempts {
			return &errors.RejectedError{X: x, Y: y, Attempts: attempt, WaitSeconds: res.WaitSeconds}
		}
	}
}

// fail logs a failed request and waits out the error backoff.
func (p *Placer) fail(ctx context.Context, op string, x, y int, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	p.Logger.Errorf("ERROR: %s (%d, %d): %v", op, x, y, err)
	return p.Sleep(ctx, p.ErrorBackoff)
}

// countdown waits d in one-second ticks, reporting the remaining whole seconds
// before each tick.
func (p *Placer) countdown(ctx context.Context, format string, d time.Duration) error {
	for d > 0 {
		line := formatCountdown(format, int(math.Ceil(d.Seconds())))
		tick := min(d, time.Second)
		if err := p.Sleep(ctx, tick); err != nil {
			if p.Progress != nil {
				p.Progress.Done(line)
			}
			return err
		}
		d -= tick
		if p.Progress == nil {
			continue
		}
		if d > 0 {
			p.Progress.Update(line)
		} else {
			p.Progress.Done(line)
		}
	}
	return nil
}
