package worker

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/unach/escuela-backend/internal/config"
)

// PhotoReferences answers whether a photo URL is still used by a row.
type PhotoReferences interface {
	PhotoInUse(ctx context.Context, url string) (bool, error)
}

// PhotoRemover deletes the stored file behind a photo URL.
type PhotoRemover interface {
	RemoveUpload(url string) error
}

// PhotoCleanupWorker consumes photo_cleanup_queue and deletes uploads that no
// student or teacher references anymore.
type PhotoCleanupWorker struct {
	rdb     *redis.Client
	refs    PhotoReferences
	remover PhotoRemover
	log     zerolog.Logger
}

// NewPhotoCleanupWorker creates a new PhotoCleanupWorker.
func NewPhotoCleanupWorker(rdb *redis.Client, refs PhotoReferences, remover PhotoRemover, log zerolog.Logger) *PhotoCleanupWorker {
	return &PhotoCleanupWorker{
		rdb:     rdb,
		refs:    refs,
		remover: remover,
		log:     log.With().Str("component", "photo_cleanup_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *PhotoCleanupWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *PhotoCleanupWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.PhotoCleanupQueue).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}
	if len(result) < 2 {
		return
	}

	if err := w.handle(ctx, result[1]); err != nil {
		w.log.Error().Err(err).Str("url", result[1]).Msg("Cleanup error, retrying in 5s")
		w.rdb.RPush(ctx, config.WorkerKey.PhotoCleanupQueue, result[1])
		select {
		case <-ctx.Done():
		case <-time.After(5 * time.Second):
		}
	}
}

// handle removes the file behind url unless a row still points at it.
func (w *PhotoCleanupWorker) handle(ctx context.Context, url string) error {
	inUse, err := w.refs.PhotoInUse(ctx, url)
	if err != nil {
		return err
	}
	if inUse {
		w.log.Debug().Str("url", url).Msg("Photo still referenced, keeping")
		return nil
	}
	if err := w.remover.RemoveUpload(url); err != nil {
		return err
	}
	w.log.Info().Str("url", url).Msg("Orphaned photo removed")
	return nil
}

// drain processes all remaining items in the queue before shutdown.
func (w *PhotoCleanupWorker) drain(ctx context.Context) {
	drained := 0
	for {
		url, err := w.rdb.LPop(ctx, config.WorkerKey.PhotoCleanupQueue).Result()
		if err != nil {
			break
		}
		if err := w.handle(ctx, url); err != nil {
			w.log.Error().Err(err).Msg("Drain cleanup error")
			w.rdb.RPush(ctx, config.WorkerKey.PhotoCleanupQueue, url)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}
