package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/graduat/graduat-backend/internal/config"
	"github.com/graduat/graduat-backend/internal/model"
	"github.com/graduat/graduat-backend/internal/repository"
)

// ContentService reads the immutable content store and keeps the
// student-facing payload and the answer key of every test cached in Redis.
// Grading never touches PostgreSQL on the hot path.
type ContentService struct {
	tests repository.TestStore
	rdb   *redis.Client
	log   zerolog.Logger
}

// NewContentService creates a new ContentService.
func NewContentService(tests repository.TestStore, rdb *redis.Client, log zerolog.Logger) *ContentService {
	return &ContentService{
		tests: tests,
		rdb:   rdb,
		log:   log.With().Str("component", "content_service").Logger(),
	}
}

// GetTest resolves a weekly test addressed by (subject, id).
func (s *ContentService) GetTest(ctx context.Context, subject model.Subject, id uuid.UUID) (*model.WeeklyTest, error) {
	return s.tests.GetBySubjectAndID(ctx, subject, id)
}

// GetTestByID resolves a weekly test by bare id, used when annotating
// assignments whose subject is already known from the ledger row.
func (s *ContentService) GetTestByID(ctx context.Context, id uuid.UUID) (*model.WeeklyTest, error) {
	return s.tests.GetByID(ctx, id)
}

// GetTestPayload retrieves the cached student payload. On a cache miss the
// test is re-warmed from PostgreSQL, so an evicted key self-heals.
func (s *ContentService) GetTestPayload(ctx context.Context, subject model.Subject, testID uuid.UUID) (*model.TestPayload, error) {
	key := config.CacheKey.TestPayloadKey(testID.String())

	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("get payload: %w", err)
		}

		test, dbErr := s.tests.GetBySubjectAndID(ctx, subject, testID)
		if dbErr != nil {
			return nil, dbErr
		}
		if warmErr := s.WarmTestCache(ctx, test); warmErr != nil {
			return nil, warmErr
		}
		data, err = s.rdb.Get(ctx, key).Bytes()
		if err != nil {
			return nil, fmt.Errorf("get payload after warm: %w", err)
		}
	}

	var payload model.TestPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}

	if payload.Subject != subject {
		return nil, repository.ErrNotFound
	}
	return &payload, nil
}

// GetAnswerKey retrieves the answer key from Redis, falling back to
// PostgreSQL (and self-healing the cache) on a miss.
func (s *ContentService) GetAnswerKey(ctx context.Context, testID uuid.UUID) (map[string]string, error) {
	key := config.CacheKey.TestAnswerKey(testID.String())

	result, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("get answer key: %w", err)
	}
	if len(result) > 0 {
		return result, nil
	}

	// Cache miss: rebuild from the content store.
	test, err := s.tests.GetByID(ctx, testID)
	if err != nil {
		return nil, err
	}
	if err := s.WarmTestCache(ctx, test); err != nil {
		if errors.Is(err, ErrNoQuestions) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	result, err = s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("get answer key after warm: %w", err)
	}
	return result, nil
}

// WarmTestCache loads one test's payload and answer key from PostgreSQL
// into Redis.
func (s *ContentService) WarmTestCache(ctx context.Context, test *model.WeeklyTest) error {
	questions, err := s.tests.ListQuestions(ctx, test.ID)
	if err != nil {
		return fmt.Errorf("list questions: %w", err)
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}

	studentQuestions := make([]model.QuestionForStudent, len(questions))
	for i, q := range questions {
		studentQuestions[i] = model.QuestionForStudent{
			ID:       q.ID,
			Prompt:   q.Prompt,
			Options:  q.Options,
			OrderNum: q.OrderNum,
		}
	}

	payload := model.TestPayload{
		TestID:     test.ID,
		Subject:    test.Subject,
		WeekNumber: test.WeekNumber,
		Title:      test.Title,
		Questions:  studentQuestions,
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	answerKey := make(map[string]interface{}, len(questions))
	for _, q := range questions {
		answerKey[q.ID.String()] = q.CorrectAnswer
	}

	pipe := s.rdb.Pipeline()
	pipe.Set(ctx, config.CacheKey.TestPayloadKey(test.ID.String()), payloadJSON, 0)
	pipe.Del(ctx, config.CacheKey.TestAnswerKey(test.ID.String()))
	pipe.HSet(ctx, config.CacheKey.TestAnswerKey(test.ID.String()), answerKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache to redis: %w", err)
	}

	s.log.Debug().
		Str("test_id", test.ID.String()).
		Int("questions", len(questions)).
		Msg("Cache warmed")
	return nil
}

// PrewarmAllCaches loads every weekly test into Redis on application
// startup, avoiding lazy-load races under first-bell traffic.
func (s *ContentService) PrewarmAllCaches(ctx context.Context) error {
	tests, err := s.tests.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list tests: %w", err)
	}

	if len(tests) == 0 {
		s.log.Info().Msg("No tests to prewarm")
		return nil
	}

	warmed := 0
	for i := range tests {
		if err := s.WarmTestCache(ctx, &tests[i]); err != nil {
			s.log.Warn().
				Err(err).
				Str("test_id", tests[i].ID.String()).
				Msg("Failed to warm test, skipping")
			continue
		}
		warmed++
	}

	s.log.Info().
		Int("warmed", warmed).
		Int("total", len(tests)).
		Msg("Prewarming complete")
	return nil
}
