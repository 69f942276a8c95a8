// Package placer drives pixel placement on the shared canvas.
//
// A [Placer] brings one canvas pixel to a desired palette index: it probes
// the pixel, skips it when it already has the color, and otherwise writes it
// and waits out the cooldown the service reports. A rejected write is retried
// after the cooldown, up to a bounded number of attempts.
//
// A [Driver] walks a [bitmap.Bitmap] in a shuffled [plan.Plan] order, maps
// each opaque pixel to the palette and hands it to the Placer, pass after
// pass, until its context is cancelled.
//
// # Waiting
//
// All waits go through [Placer.Sleep], which must honour context
// cancellation. Tests inject a recording sleep so no real time passes.
package placer
