package history

import (
	"context"
	"time"

	"github.com/yildizm/SentiDash/internal/api"
	"github.com/yildizm/SentiDash/internal/common"
	"github.com/yildizm/SentiDash/internal/logger"
)

// Source tells where loaded records came from
type Source string

const (
	SourceRemote Source = "remote"
	SourceSample Source = "sample"
	SourceCache  Source = "cache"
)

// Fetcher is the part of the API client the loader needs
type Fetcher interface {
	History(ctx context.Context) api.Result[[]common.Record]
}

// Snapshotter persists the last good remote history
type Snapshotter interface {
	Save(ctx context.Context, records []common.Record) error
}

// Outcome is the result of one fetch. Err is set when the remote call
// failed; Records then hold the sample set.
type Outcome struct {
	Records []common.Record
	Source  Source
	Err     error
}

// Loader fills a Store from the server, substituting the sample set when
// the server has nothing or cannot be reached.
type Loader struct {
	fetcher Fetcher
	store   *Store
	cache   Snapshotter
	logger  *logger.Logger
	now     func() time.Time
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithSnapshot refreshes cache after every successful remote load
func WithSnapshot(cache Snapshotter) LoaderOption {
	return func(l *Loader) { l.cache = cache }
}

// WithLogger sets the loader logger
func WithLogger(log *logger.Logger) LoaderOption {
	return func(l *Loader) { l.logger = log.WithComponent("history") }
}

// WithNow replaces time.Now for sample timestamps
func WithNow(now func() time.Time) LoaderOption {
	return func(l *Loader) { l.now = now }
}

// NewLoader creates a loader writing into store
func NewLoader(fetcher Fetcher, store *Store, opts ...LoaderOption) *Loader {
	l := &Loader{fetcher: fetcher, store: store, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Fetch calls the server without touching the store, so it can run off
// the UI goroutine. Apply the outcome afterwards.
func (l *Loader) Fetch(ctx context.Context) Outcome {
	res := l.fetcher.History(ctx)
	if !res.Success {
		l.logger.WarnWithFields("history load failed, using sample data", []logger.Field{
			logger.F("kind", res.Kind),
			logger.F("message", res.Message),
		})
		return Outcome{Records: SampleRecords(l.now()), Source: SourceSample, Err: res.Err()}
	}
	if len(res.Data) == 0 {
		l.logger.Info("server history is empty, using sample data")
		return Outcome{Records: SampleRecords(l.now()), Source: SourceSample}
	}

	if l.cache != nil {
		if err := l.cache.Save(ctx, res.Data); err != nil {
			l.logger.WarnWithFields("failed to refresh history snapshot", []logger.Field{logger.Error(err)})
		}
	}
	l.logger.InfoWithFields("history loaded", []logger.Field{logger.Count(len(res.Data))})
	return Outcome{Records: res.Data, Source: SourceRemote}
}

// Apply replaces the store contents with the outcome records
func (l *Loader) Apply(o Outcome) {
	l.store.Replace(o.Records)
}

// ApplySince applies an outcome fetched when the store was at generation
// since, keeping local changes made after it. See Store.ReplaceSince.
func (l *Loader) ApplySince(since Generation, o Outcome) bool {
	if !l.store.ReplaceSince(since, o.Records) {
		l.logger.Debug("history snapshot from generation %d is outdated, dropping it", since)
		return false
	}
	return true
}

// Generation returns the generation of the store the loader fills
func (l *Loader) Generation() Generation {
	return l.store.Generation()
}

// Load fetches and applies in one step
func (l *Loader) Load(ctx context.Context) Outcome {
	since := l.store.Generation()
	o := l.Fetch(ctx)
	l.ApplySince(since, o)
	return o
}
