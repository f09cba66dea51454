package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/pydocs-scraper/pkg/config"
	"github.com/Sriram-PR/pydocs-scraper/pkg/extract"
	"github.com/Sriram-PR/pydocs-scraper/pkg/fetch"
	"github.com/Sriram-PR/pydocs-scraper/pkg/output"
	"github.com/Sriram-PR/pydocs-scraper/pkg/storage"
	"github.com/Sriram-PR/pydocs-scraper/pkg/utils"
)

// Options selects what one run does
type Options struct {
	Mode          extract.Mode
	Format        output.Format
	ClearCache    bool
	DumpCachePath string // Write the cached URL index here after the run (optional)
}

// Runner owns the handles shared by every mode: config, logger, response
// cache, fetcher and renderer. Close releases them.
type Runner struct {
	cfg      *config.AppConfig
	log      *logrus.Entry
	store    storage.CacheStore
	fetcher  fetch.HTTPFetcher
	renderer *output.Renderer
}

// New wires the runner from a validated config
func New(cfg *config.AppConfig, logger *logrus.Logger, stdout io.Writer) (*Runner, error) {
	log := logger.WithField("run_id", uuid.NewString())

	store, err := storage.NewBadgerStore(cfg.ResolveDir(cfg.CacheDir), log.WithField("component", "cache"))
	if err != nil {
		return nil, err
	}

	fetchLog := log.WithField("component", "fetch")
	base := fetch.NewTransport(cfg.HTTPClientSettings)
	limiter := fetch.NewRateLimiter(cfg.DelayPerHost, fetchLog)
	var robots *fetch.RobotsGuard
	if cfg.RespectRobotsTxt {
		robots = fetch.NewRobotsGuard(base, limiter, cfg.DelayPerHost, cfg.UserAgent, fetchLog.WithField("component", "robots"))
	}
	transport := fetch.NewCachingTransport(base, store, limiter, cfg.DelayPerHost, robots, fetchLog)
	client := fetch.NewClient(cfg.HTTPClientSettings, transport, fetchLog)

	return &Runner{
		cfg:      cfg,
		log:      log,
		store:    store,
		fetcher:  fetch.NewFetcher(client, cfg.UserAgent, fetchLog),
		renderer: output.NewRenderer(stdout, cfg.ResolveDir(cfg.ResultsDir), log.WithField("component", "output")),
	}, nil
}

// Run executes one mode end to end. The "finished" marker is logged whatever
// the outcome. Errors are logged here and returned for the exit code.
func (r *Runner) Run(ctx context.Context, opts Options) (err error) {
	log := r.log.WithFields(logrus.Fields{"component": "runner", "mode": opts.Mode.String()})
	log.Info("Parser started")
	log.WithFields(logrus.Fields{
		"output":      opts.Format.String(),
		"clear_cache": opts.ClearCache,
		"workers":     r.cfg.GetEffectiveWorkers(),
	}).Info("Command line arguments")
	defer log.Info("Parser finished")

	defer func() {
		if err != nil {
			r.logFailure(log, err)
		}
	}()

	if opts.ClearCache {
		if err := r.store.Clear(); err != nil {
			return err
		}
	}

	extractor, err := extract.For(opts.Mode)
	if err != nil {
		return err
	}
	env := &extract.Env{
		Fetcher: r.fetcher,
		Cfg:     r.cfg,
		Log:     log.WithField("component", "extract"),
	}
	table, err := extractor.Extract(ctx, env)
	if err != nil {
		return utils.WrapErrorf(err, "%s", opts.Mode)
	}

	if err := r.renderer.Render(table, opts.Format, opts.Mode.String()); err != nil {
		return utils.WrapErrorf(err, "render %s output", opts.Format)
	}

	if opts.DumpCachePath != "" {
		if err := r.store.WriteIndex(opts.DumpCachePath); err != nil {
			return err
		}
	}
	if count, errCount := r.store.Count(); errCount == nil {
		log.Debugf("Response cache holds %d entries", count)
	}
	return nil
}

func (r *Runner) logFailure(log *logrus.Entry, err error) {
	errLog := log.WithField("error_type", utils.CategorizeError(err))
	switch {
	case errors.Is(err, context.Canceled):
		errLog.Warn("Run cancelled")
	case utils.IsParserError(err):
		errLog.WithField("stack", string(debug.Stack())).Errorf("Parser failed: %v", err)
	default:
		errLog.WithField("stack", string(debug.Stack())).Errorf("Unexpected error: %v", err)
	}
}

// Close releases the response cache
func (r *Runner) Close() error {
	if r.store == nil {
		return nil
	}
	if err := r.store.Close(); err != nil {
		return fmt.Errorf("%w: close response cache: %w", utils.ErrDatabase, err)
	}
	return nil
}
