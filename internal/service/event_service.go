package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/unach/escuela-backend/internal/config"
	"github.com/unach/escuela-backend/internal/model"
)

// ChangeNotifier is told about every successful mutation.
type ChangeNotifier interface {
	Notify(ctx context.Context, topic model.ChangeTopic, action model.ChangeAction, id int)
}

// PhotoDiscarder receives photo URLs that may no longer be referenced.
type PhotoDiscarder interface {
	DiscardPhoto(ctx context.Context, url string)
}

// EventService fans mutation events out over Redis: it moves the report
// cache to a new generation, publishes the event for the WebSocket stream
// and queues replaced photos for cleanup. Failures are logged, never returned; the
// mutation has already been committed.
type EventService struct {
	rdb *redis.Client
	log zerolog.Logger
	now func() time.Time
}

// NewEventService creates a new EventService.
func NewEventService(rdb *redis.Client, log zerolog.Logger) *EventService {
	return &EventService{
		rdb: rdb,
		log: log.With().Str("component", "event_service").Logger(),
		now: time.Now,
	}
}

// Notify retires the cached aggregates and publishes the change event.
func (s *EventService) Notify(ctx context.Context, topic model.ChangeTopic, action model.ChangeAction, id int) {
	payload, err := encodeEvent(model.ChangeEvent{Topic: topic, Action: action, ID: id, At: s.now().UTC()})
	if err != nil {
		s.log.Error().Err(err).Str("topic", string(topic)).Msg("Failed to encode change event")
		return
	}

	pipe := s.rdb.Pipeline()
	pipe.Incr(ctx, config.CacheKey.ReportGenerationKey())
	pipe.Publish(ctx, config.CacheKey.ChangesChannel(), payload)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Error().Err(err).
			Str("topic", string(topic)).
			Str("action", string(action)).
			Int("id", id).
			Msg("Failed to publish change event")
	}
}

// DiscardPhoto queues url for the photo cleanup worker.
func (s *EventService) DiscardPhoto(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.PhotoCleanupQueue, url).Err(); err != nil {
		s.log.Error().Err(err).Str("url", url).Msg("Failed to queue photo cleanup")
	}
}

// Subscribe opens a subscription to the change channel. The caller closes it.
func (s *EventService) Subscribe(ctx context.Context) *redis.PubSub {
	return s.rdb.Subscribe(ctx, config.CacheKey.ChangesChannel())
}

func encodeEvent(ev model.ChangeEvent) (string, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
