package extract

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Sriram-PR/pydocs-scraper/pkg/config"
	"github.com/Sriram-PR/pydocs-scraper/pkg/fetch"
	"github.com/Sriram-PR/pydocs-scraper/pkg/models"
	"github.com/Sriram-PR/pydocs-scraper/pkg/utils"
)

// Env carries the handles every extractor needs
type Env struct {
	Fetcher fetch.HTTPFetcher
	Cfg     *config.AppConfig
	Log     *logrus.Entry
}

// Extractor builds one report. A nil table with a nil error means the mode
// has no tabular output.
type Extractor interface {
	Extract(ctx context.Context, env *Env) (*models.Table, error)
}

// ExtractorFunc adapts a function to the Extractor interface
type ExtractorFunc func(ctx context.Context, env *Env) (*models.Table, error)

// Extract implements Extractor
func (f ExtractorFunc) Extract(ctx context.Context, env *Env) (*models.Table, error) {
	return f(ctx, env)
}

// For returns the extractor implementing mode
func For(mode Mode) (Extractor, error) {
	switch mode {
	case ModeWhatsNew:
		return ExtractorFunc(WhatsNew), nil
	case ModeLatestVersions:
		return ExtractorFunc(LatestVersions), nil
	case ModeDownload:
		return ExtractorFunc(Download), nil
	case ModePEP:
		return ExtractorFunc(PEP), nil
	default:
		return nil, fmt.Errorf("%w: %s", utils.ErrUnknownMode, mode)
	}
}

// progressInterval is how often a running fetchEach logs how far it got
var progressInterval = 10 * time.Second

// fetchEach calls fn for indexes 0..n-1 with at most workers calls in flight and
// returns the results in index order. The first error cancels the remaining calls.
// Progress is logged every progressInterval and once more when all calls are done.
func fetchEach[T any](ctx context.Context, n, workers int, log *logrus.Entry, fn func(ctx context.Context, i int) (T, error)) ([]T, error) {
	results := make([]T, n)
	if n == 0 {
		return results, nil
	}

	var done atomic.Int64
	stopProgress := reportProgress(ctx, &done, n, log)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i := range n {
		g.Go(func() error {
			res, err := fn(gctx, i)
			if err != nil {
				return err
			}
			results[i] = res
			done.Add(1)
			return nil
		})
	}
	err := g.Wait()
	stopProgress()
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"done": n, "total": n}).Infof("Fetched %d/%d pages", n, n)
	return results, nil
}

// reportProgress logs done/total on every tick until the returned stop func is
// called or ctx ends. stop waits for the reporter to exit.
func reportProgress(ctx context.Context, done *atomic.Int64, total int, log *logrus.Entry) (stop func()) {
	ticker := time.NewTicker(progressInterval)
	stopCh := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		for {
			select {
			case <-stopCh:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				log.WithFields(logrus.Fields{"done": done.Load(), "total": total}).Info("Fetch progress")
			}
		}
	}()
	return func() {
		ticker.Stop()
		close(stopCh)
		<-exited
	}
}

// skippable reports whether a per-row error means "drop this row and continue"
func skippable(err error) bool {
	return errors.Is(err, utils.ErrConnection) || errors.Is(err, utils.ErrParsing)
}
