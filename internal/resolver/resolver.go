// Package resolver implements the local-cache-first, externally-augmented
// resolution engine. Queries are served from the local store when it has
// enough; otherwise configured providers are fanned out through the gateway,
// their candidates normalized, deduplicated, persisted and merged into the
// result.
package resolver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tunedex/tunedex/internal/gateway"
	"github.com/tunedex/tunedex/internal/genre"
	"github.com/tunedex/tunedex/internal/models"
	"github.com/tunedex/tunedex/internal/normalize"
	"github.com/tunedex/tunedex/internal/providers"
	"github.com/tunedex/tunedex/internal/shared"
)

const defaultMinResults = 10

// Store is the storage port the resolver persists through. Implemented by the
// repositories package; callers may supply their own.
type Store interface {
	// FindLocal returns active (non-deleted) records matching the query.
	FindLocal(ctx context.Context, q models.Query) ([]*models.PersistedTrack, error)

	// Save persists a candidate as a new record.
	Save(ctx context.Context, c models.ExternalCandidate) (*models.PersistedTrack, error)

	// MergeMetadata additively fills unset fields of an existing record from
	// a candidate. Existing values are never overwritten.
	MergeMetadata(ctx context.Context, trackID string, c models.ExternalCandidate) error

	// UpdateLyrics stores lyrics text on a track record.
	UpdateLyrics(ctx context.Context, trackID, text string) error

	// UpdateGenres stores genre tags on a track record.
	UpdateGenres(ctx context.Context, trackID string, genres []string) error
}

// Options bound a single resolution call.
type Options struct {
	MinResults     int           // local-result threshold before providers are consulted
	DisableAugment bool          // serve local results only
	Timeout        time.Duration // total resolution deadline; zero means the caller's context rules
}

// Resolver orchestrates cache-first track resolution.
type Resolver struct {
	store      Store
	searchers  []providers.Searcher
	gw         *gateway.Gateway
	classifier *genre.Classifier
	logger     *log.Logger
	keys       keyedMutex
}

// New creates a Resolver over the given store and ordered provider list.
func New(store Store, gw *gateway.Gateway, classifier *genre.Classifier, logger *log.Logger, searchers ...providers.Searcher) *Resolver {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Resolver{
		store:      store,
		searchers:  searchers,
		gw:         gw,
		classifier: classifier,
		logger:     logger,
	}
}

// Resolve serves a query from the local store, augmenting from providers when
// local results fall short of the threshold. Provider and per-candidate
// persistence failures are logged and skipped; the only hard failure is an
// unavailable local store.
func (r *Resolver) Resolve(ctx context.Context, q models.Query, opts Options) (*models.ResolvedSet, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}

	minResults := opts.MinResults
	if minResults <= 0 {
		minResults = defaultMinResults
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	local, err := r.store.FindLocal(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrStoreUnavailable, err)
	}

	if len(local) >= minResults || opts.DisableAugment || len(r.searchers) == 0 {
		return localOnlySet(local), nil
	}

	needed := minResults - len(local)
	persisted := r.augment(ctx, q, local, needed)

	items := append(local, persisted...)
	switch {
	case len(items) == 0:
		return &models.ResolvedSet{Source: models.SourceNotFound, Items: []*models.PersistedTrack{}}, nil
	case len(persisted) == 0:
		return &models.ResolvedSet{Source: models.SourceLocalCache, Items: items}, nil
	case len(local) == 0:
		return &models.ResolvedSet{Source: models.SourceExternal, Items: items}, nil
	default:
		return &models.ResolvedSet{Source: models.SourceLocalAugmented, Items: items}, nil
	}
}

func localOnlySet(local []*models.PersistedTrack) *models.ResolvedSet {
	if len(local) == 0 {
		return &models.ResolvedSet{Source: models.SourceNotFound, Items: []*models.PersistedTrack{}}
	}
	return &models.ResolvedSet{Source: models.SourceLocalCache, Items: local}
}

// augment fans out to every configured provider concurrently and folds their
// candidates into the store, stopping once needed records were persisted.
// Candidate batches arrive on a channel and are folded by this single
// goroutine, so dedup bookkeeping needs no lock of its own; the keyed
// critical section in persist guards against concurrent Resolve invocations.
func (r *Resolver) augment(ctx context.Context, q models.Query, local []*models.PersistedTrack, needed int) []*models.PersistedTrack {
	existing := make(map[string]*models.PersistedTrack, len(local))
	for _, t := range local {
		existing[normalize.RecordKey(t)] = t
	}

	batches := make(chan []models.ExternalCandidate, len(r.searchers))

	var wg sync.WaitGroup
	for _, s := range r.searchers {
		wg.Add(1)
		go func(s providers.Searcher) {
			defer wg.Done()

			var found []models.ExternalCandidate
			err := r.gw.Call(ctx, s.Name(), func(ctx context.Context) error {
				candidates, err := s.Search(ctx, q, needed)
				found = candidates
				return err
			})
			if err != nil {
				// Provider failures never fail the resolution.
				r.logger.Warn("provider yielded nothing", "provider", s.Name(), "err", err)
				return
			}
			batches <- found
		}(s)
	}

	go func() {
		wg.Wait()
		close(batches)
	}()

	var persisted []*models.PersistedTrack
	for {
		select {
		case <-ctx.Done():
			// Abandon in-flight providers and return what completed.
			r.logger.Warn("resolution deadline reached", "query", q.Text, "persisted", len(persisted))
			return persisted
		case batch, ok := <-batches:
			if !ok {
				return persisted
			}
			for _, raw := range batch {
				if len(persisted) >= needed {
					return persisted
				}
				if track := r.fold(ctx, raw, existing); track != nil {
					persisted = append(persisted, track)
				}
			}
		}
	}
}

// fold normalizes one candidate, discards dedup-key collisions (merging their
// fields into the colliding record additively) and persists survivors.
func (r *Resolver) fold(ctx context.Context, raw models.ExternalCandidate, existing map[string]*models.PersistedTrack) *models.PersistedTrack {
	c := normalize.Candidate(raw)
	key := normalize.CandidateKey(c)

	unlock := r.keys.lock(key)
	defer unlock()

	if match, ok := existing[key]; ok {
		if match.Merge(c) {
			if err := r.store.MergeMetadata(ctx, match.ID(), c); err != nil {
				r.logger.Warn("metadata merge failed", "track", match.ID(), "err", err)
			}
		}
		return nil
	}

	track, err := r.store.Save(ctx, c)
	if err != nil {
		// One failed write must not abort the batch.
		r.logger.Warn("failed to persist candidate", "key", key, "err", err)
		return nil
	}
	existing[key] = track

	r.tagGenres(ctx, track)
	return track
}

// tagGenres assigns genre tags to a newly persisted track, best-effort.
func (r *Resolver) tagGenres(ctx context.Context, track *models.PersistedTrack) {
	if r.classifier == nil {
		return
	}

	matches := r.classifier.Classify(track.Title(), track.Artist(), track.Album(), nil, genre.Options{})
	if len(matches) == 0 {
		return
	}

	genres := make([]string, len(matches))
	for i, m := range matches {
		genres[i] = m.GenreID
	}

	if err := r.store.UpdateGenres(ctx, track.ID(), genres); err != nil {
		r.logger.Warn("genre tagging failed", "track", track.ID(), "err", err)
		return
	}
	track.SetGenres(genres)
}

// keyedMutex provides a critical section per dedup key so two concurrent
// resolutions cannot both pass the "check existing, then insert" step for the
// same external id.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
