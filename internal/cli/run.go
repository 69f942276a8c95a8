package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/placer/pkg/bitmap"
	"github.com/matzehuels/placer/pkg/buildinfo"
	"github.com/matzehuels/placer/pkg/canvas"
	"github.com/matzehuels/placer/pkg/config"
	"github.com/matzehuels/placer/pkg/errors"
	"github.com/matzehuels/placer/pkg/observability"
	"github.com/matzehuels/placer/pkg/placer"
	"github.com/matzehuels/placer/pkg/plan"
	"github.com/matzehuels/placer/pkg/session"
	"github.com/matzehuels/placer/pkg/status"
)

// runOptions holds the root command's flags.
type runOptions struct {
	configPath   string
	image        string
	originX      int
	originY      int
	seed         uint64
	metric       string
	maxAttempts  int
	passes       int
	remember     bool
	sessionStore string
	statusAddr   string
}

func (o *runOptions) register(cmd *cobra.Command) {
	def := config.Default()
	f := cmd.Flags()
	f.StringVar(&o.configPath, "config", "", "TOML config file")
	f.StringVar(&o.image, "image", "", "image to place (PNG, GIF, JPEG, BMP or WebP; default: built-in logo)")
	f.IntVar(&o.originX, "origin-x", def.Origin.X, "canvas x of the image's left edge")
	f.IntVar(&o.originY, "origin-y", def.Origin.Y, "canvas y of the image's top edge")
	f.Uint64Var(&o.seed, "seed", 0, "shuffle seed (0 picks one from the clock)")
	f.StringVar(&o.metric, "metric", def.Metric, "color distance: rgb or lab")
	f.IntVar(&o.maxAttempts, "max-attempts", def.MaxAttempts, "writes per pixel before giving up for the pass")
	f.IntVar(&o.passes, "passes", 0, "stop after this many passes (0 runs until interrupted)")
	f.BoolVar(&o.remember, "remember", false, "reuse and save the login session")
	f.StringVar(&o.sessionStore, "session-store", "", "session store: file, file:<dir> or redis://host:port")
	f.StringVar(&o.statusAddr, "status-addr", "", "serve /healthz and /stats on this address")
}

// loadConfig applies explicitly set flags over the file and environment.
func (o *runOptions) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}

	f := cmd.Flags()
	if f.Changed("origin-x") {
		cfg.Origin.X = o.originX
	}
	if f.Changed("origin-y") {
		cfg.Origin.Y = o.originY
	}
	if f.Changed("metric") {
		cfg.Metric = o.metric
	}
	if f.Changed("max-attempts") {
		cfg.MaxAttempts = o.maxAttempts
	}
	if f.Changed("session-store") {
		cfg.SessionStore = o.sessionStore
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// loadBitmap reads path, or the built-in logo when path is empty.
func loadBitmap(path string) (*bitmap.Bitmap, error) {
	if path == "" {
		return bitmap.Default()
	}
	return bitmap.Load(path)
}

// runPlace logs in and runs the placement loop until ctx ends.
func (c *CLI) runPlace(cmd *cobra.Command, username, password string, opts runOptions) error {
	if opts.passes < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "--passes must not be negative")
	}
	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}
	pal, err := cfg.BuildPalette()
	if err != nil {
		return err
	}
	bm, err := loadBitmap(opts.image)
	if err != nil {
		return err
	}
	client, err := canvas.NewClient(cfg.Canvas())
	if err != nil {
		return err
	}

	logger := runLogger(c.Logger)
	logger.Debug("Starting", buildinfo.Fields()...)
	ctx := withLogger(cmd.Context(), logger)

	sess, err := c.authenticate(ctx, client, cfg, username, password, opts.remember)
	if err != nil {
		return err
	}

	stats := observability.NewStats()
	observability.SetPlacementHooks(stats)
	observability.SetHTTPHooks(stats)
	defer observability.Reset()

	if opts.statusAddr != "" {
		stop := c.startStatus(ctx, opts.statusAddr, stats)
		defer stop()
	}

	p := placer.New(logger, c.Out)
	p.Progress = newCountdown(c.Out)
	p.ErrorBackoff = cfg.ErrorBackoff
	p.CooldownBuffer = cfg.CooldownBuffer
	p.MaxAttempts = cfg.MaxAttempts
	if c.sleep != nil {
		p.Sleep = c.sleep
	}

	printInfo(c.Out, "Placing %dx%d image at %s (%d opaque pixels)", bm.Width(), bm.Height(), cfg.Origin, bm.Opaque())

	d := &placer.Driver{
		Placer:    p,
		Canvas:    sess,
		Bitmap:    bm,
		Plan:      plan.New(bm.Width(), bm.Height(), plan.NewRand(opts.seed)),
		Palette:   pal,
		Origin:    plan.Coord{X: cfg.Origin.X, Y: cfg.Origin.Y},
		MaxPasses: opts.passes,
		Logger:    logger,
	}
	return d.Run(ctx)
}

// authenticate resumes a remembered session or logs in.
func (c *CLI) authenticate(ctx context.Context, client *canvas.Client, cfg config.Config, username, password string, remember bool) (*canvas.Session, error) {
	logger := loggerFromContext(ctx)

	var store session.Store
	if remember {
		s, err := session.Open(ctx, cfg.SessionStore)
		if err != nil {
			logger.Warnf("Session store unavailable: %v", err)
		} else {
			store = s
			defer store.Close()
			if err := store.Cleanup(ctx); err != nil {
				logger.Debugf("Session cleanup: %v", err)
			}
			if stored, err := store.Get(ctx, username); err != nil {
				logger.Warnf("Could not read remembered session: %v", err)
			} else if stored != nil {
				logger.Infof("Resuming session for %s from %s", username, stored.CreatedAt.Format("Jan 2 15:04"))
				return client.Resume(username, stored.Modhash, stored.HTTPCookies()), nil
			}
		}
	}

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, c.Err, fmt.Sprintf("Logging in as %s...", username))
	spinner.Start()
	sess, err := client.Login(ctx, username, password)
	spinner.Stop()
	if err != nil {
		return nil, loginError(err)
	}
	prog.done("Logged in as " + username)

	if store != nil {
		remembered := session.New(username, sess.Modhash(), sess.Cookies(), session.DefaultTTL)
		if err := store.Set(ctx, remembered); err != nil {
			logger.Warnf("Could not remember session: %v", err)
		}
	}
	return sess, nil
}

// loginError rewords a login failure for the operator.
func loginError(err error) error {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeAuthFailed
	}
	return errors.Wrap(code, err, "Error logging in: %s", errors.UserMessage(err))
}

// startStatus serves the status endpoint until the returned stop is called.
func (c *CLI) startStatus(ctx context.Context, addr string, stats *observability.Stats) (stop func()) {
	logger := loggerFromContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	srv := status.NewServer(addr, stats, logger)
	go func() {
		defer close(done)
		if err := srv.Run(ctx); err != nil {
			logger.Errorf("Status server: %v", err)
		}
	}()
	return func() {
		cancel()
		<-done
	}
}
