package placer

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/placer/pkg/bitmap"
	"github.com/matzehuels/placer/pkg/errors"
	"github.com/matzehuels/placer/pkg/observability"
	"github.com/matzehuels/placer/pkg/palette"
	"github.com/matzehuels/placer/pkg/plan"
)

// Driver repeatedly places a bitmap on the canvas.
type Driver struct {
	Placer  *Placer
	Canvas  Canvas
	Bitmap  *bitmap.Bitmap
	Plan    plan.Plan // must match the bitmap's dimensions
	Palette palette.Palette
	Origin  plan.Coord // canvas position of the bitmap's top-left pixel

	// MaxPasses stops Run after that many passes; 0 runs until cancelled.
	MaxPasses int
	Logger    *log.Logger
}

// Run places the bitmap pass after pass. It returns ctx.Err() when cancelled
// and nil once MaxPasses passes have completed.
func (d *Driver) Run(ctx context.Context) error {
	if d.Plan.Width() != d.Bitmap.Width() || d.Plan.Height() != d.Bitmap.Height() {
		return errors.New(errors.ErrCodeInternal, "plan is %dx%d but bitmap is %dx%d",
			d.Plan.Width(), d.Plan.Height(), d.Bitmap.Width(), d.Bitmap.Height())
	}
	if d.Bitmap.Opaque() == 0 {
		return errors.New(errors.ErrCodeInvalidImage, "image has no opaque pixels")
	}

	for pass := 1; d.MaxPasses == 0 || pass <= d.MaxPasses; pass++ {
		if err := d.pass(ctx, pass); err != nil {
			return err
		}
	}
	return nil
}

// pass visits every plan cell once.
func (d *Driver) pass(ctx context.Context, pass int) error {
	d.Logger.Infof("Starting image placement for img height: %d, width: %d", d.Bitmap.Height(), d.Bitmap.Width())
	start := time.Now()

	var err error
	d.Plan.Each(func(c plan.Coord) bool {
		if err = ctx.Err(); err != nil {
			return false
		}
		if d.Bitmap.Transparent(c.X, c.Y) {
			return true
		}
		color := d.Palette.Nearest(palette.FromColor(d.Bitmap.At(c.X, c.Y)))
		target := c.Add(d.Origin)

		var rejected *errors.RejectedError
		switch placeErr := d.Placer.PlacePixel(ctx, d.Canvas, target.X, target.Y, color); {
		case placeErr == nil:
		case stderrors.As(placeErr, &rejected):
			d.Logger.Warnf("Giving up on (%d, %d) for this pass: %v", target.X, target.Y, placeErr)
		default:
			err = placeErr
			return false
		}
		return true
	})
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	observability.Placement().OnPassComplete(ctx, pass, elapsed)
	d.Logger.Info("All pixels placed.", "pass", pass, "took", elapsed.Round(time.Millisecond))
	return nil
}
