package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/graduat/graduat-backend/internal/config"
	"github.com/graduat/graduat-backend/internal/model"
	"github.com/graduat/graduat-backend/internal/repository"
)

const (
	NotifyBatchSize    = 50
	NotifyBatchTimeout = 2 * time.Second
	NotifyPollTimeout  = 1 * time.Second
)

// NotificationWorker drains the notification persistence queue and writes
// the records to Postgres in batches. Live delivery happens via pub/sub at
// emit time; the worker only owns durability.
type NotificationWorker struct {
	notifications repository.NotificationStore
	rdb           *redis.Client
	log           zerolog.Logger
}

func NewNotificationWorker(notifications repository.NotificationStore, rdb *redis.Client, log zerolog.Logger) *NotificationWorker {
	return &NotificationWorker{
		notifications: notifications,
		rdb:           rdb,
		log:           log.With().Str("component", "notification_worker").Logger(),
	}
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

func (w *NotificationWorker) Start(ctx context.Context) {
	w.log.Info().Msg("NotificationWorker started")

	batch := make([]model.Notification, 0, NotifyBatchSize)
	lastFlush := time.Now()

	for {
		// Should flush?
		if len(batch) > 0 &&
			(len(batch) >= NotifyBatchSize || time.Since(lastFlush) >= NotifyBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, NotifyPollTimeout, config.WorkerKey.PersistNotificationsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var n model.Notification
			if err := json.Unmarshal([]byte(item[1]), &n); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, n)
		}
	}
}

// flushSafe tries one bulk insert and degrades to per-row inserts when it
// fails. Rows that still cannot be written go back on the queue.
func (w *NotificationWorker) flushSafe(ctx context.Context, batch []model.Notification) {
	if len(batch) == 0 {
		return
	}

	if err := w.notifications.CreateBatch(ctx, batch); err != nil {
		w.log.Warn().Err(err).Msg("Bulk notification insert failed, using fallback")

		for i := range batch {
			if err := w.notifications.Create(ctx, &batch[i]); err != nil {
				w.log.Error().Err(err).Msg("Single insert failed, requeueing")
				raw, _ := json.Marshal(batch[i])
				w.rdb.RPush(ctx, config.WorkerKey.PersistNotificationsQueue, raw)
			}
		}
		return
	}

	w.log.Debug().Int("count", len(batch)).Msg("Notification batch persisted")
}
