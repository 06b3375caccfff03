package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/graduat/graduat-backend/internal/config"
	"github.com/graduat/graduat-backend/internal/model"
	"github.com/graduat/graduat-backend/internal/repository"
)

// NotificationService emits submission notifications and serves the
// teacher-facing views. Persistence is asynchronous: Emit enqueues to Redis
// and the notification worker batches the inserts; Emit also publishes on
// the subject's pub/sub channel for connected WebSocket listeners.
type NotificationService struct {
	notifications repository.NotificationStore
	teachers      repository.TeacherStore
	rdb           *redis.Client
	log           zerolog.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(
	notifications repository.NotificationStore,
	teachers repository.TeacherStore,
	rdb *redis.Client,
	log zerolog.Logger,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		teachers:      teachers,
		rdb:           rdb,
		log:           log.With().Str("component", "notification_service").Logger(),
	}
}

// Emit queues a notification for persistence and broadcasts it live.
func (s *NotificationService) Emit(ctx context.Context, n model.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistNotificationsQueue, payload).Err(); err != nil {
		// The queue is the source of persistence; fall back to a direct
		// insert so the notification is not lost when Redis is down.
		s.log.Warn().Err(err).Msg("Queue push failed, inserting directly")
		if dbErr := s.notifications.Create(ctx, &n); dbErr != nil {
			return fmt.Errorf("persist notification: %w", dbErr)
		}
		return nil
	}

	if err := s.rdb.Publish(ctx, config.CacheKey.SubjectNotifyChannel(string(n.Subject)), payload).Err(); err != nil {
		s.log.Debug().Err(err).Msg("Live publish failed")
	}

	return nil
}

// ListUnreadForTeacher returns unread notifications in the teacher's
// subjects, newest first.
func (s *NotificationService) ListUnreadForTeacher(ctx context.Context, teacherUsuario string) ([]model.Notification, error) {
	teacher, err := s.teachers.GetByUsuario(ctx, teacherUsuario)
	if err != nil {
		return nil, err
	}
	subjects := teacher.Subjects()
	if len(subjects) == 0 {
		return []model.Notification{}, nil
	}
	return s.notifications.ListUnreadBySubjects(ctx, subjects.Strings())
}

// MarkRead flips one notification to read.
func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) error {
	return s.notifications.MarkRead(ctx, id)
}
