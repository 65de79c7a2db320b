package notice

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"campusquery/internal/apperror"
	"campusquery/internal/events"
)

type Service struct {
	store  NoticeStore
	bus    *events.Bus
	logger *zap.Logger
}

func NewService(store NoticeStore, bus *events.Bus, logger *zap.Logger) *Service {
	return &Service{store: store, bus: bus, logger: logger}
}

// Create persists an admin's notice and announces it for moderation. The
// admin check happens at the route; the service only validates content.
func (s *Service) Create(ctx context.Context, req CreateNoticeRequest) (*Notice, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	date := now
	if req.Date != nil {
		date = *req.Date
	}
	notice := &Notice{
		ID:        primitive.NewObjectID(),
		Title:     req.Title,
		Category:  req.Category,
		Date:      date,
		Summary:   req.Summary,
		Important: req.Important,
		Content:   req.Content,
		Status:    StatusPublished,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Insert(ctx, notice); err != nil {
		return nil, apperror.Internal(err)
	}

	s.bus.Publish(events.TopicNoticeCreated, notice)
	s.logger.Info("Notice created", zap.String("notice", notice.ID.Hex()), zap.String("category", notice.Category))
	return notice, nil
}

// List returns published notices, newest date first. Flagged notices are
// hidden here but stay in the store.
func (s *Service) List(ctx context.Context, category, search string) ([]*Notice, error) {
	published := StatusPublished
	notices, err := s.store.Find(ctx, Filter{Status: &published, Category: category, Search: search})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return notices, nil
}
