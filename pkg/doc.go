// Package pkg provides the libraries behind placer, a bot that keeps an image
// painted on a shared, rate-limited pixel canvas.
//
// # Overview
//
//  1. [bitmap] - Decodes the source image (embedded logo or a file)
//  2. [palette] - Maps image colors to the canvas palette
//  3. [plan] - Shuffles the order pixels are visited in
//  4. [canvas] - HTTP client for login, pixel probes and writes
//  5. [placer] - Places single pixels and drives whole passes
//
// Supporting packages: [config] (defaults, TOML, environment), [session]
// (remembered logins), [observability] (hooks and run counters), [status]
// (HTTP status endpoint), [httputil] (transport retries), [errors] (coded
// errors) and [buildinfo].
//
// # Architecture
//
// One placement pass:
//
//	bitmap.Bitmap + plan.Plan
//	         ↓
//	    placer.Driver (skip transparent, quantize, offset by origin)
//	         ↓
//	    placer.Placer (probe, skip or write, wait out cooldown)
//	         ↓
//	    canvas.Session (HTTP)
//
// Passes repeat until the context is cancelled, so pixels overwritten by
// others are restored on the next pass.
package pkg
