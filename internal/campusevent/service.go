package campusevent

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"campusquery/internal/apperror"
)

type Service struct {
	store  EventStore
	logger *zap.Logger
}

func NewService(store EventStore, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

func (s *Service) Create(ctx context.Context, req CreateEventRequest) (*Event, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	category := req.Category
	if category == "" {
		category = "General"
	}
	now := time.Now().UTC()
	event := &Event{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		Date:        *req.Date,
		Time:        req.Time,
		Location:    req.Location,
		Description: req.Description,
		Category:    category,
		Organizer:   req.Organizer,
		Image:       req.Image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Insert(ctx, event); err != nil {
		return nil, apperror.Internal(err)
	}

	s.logger.Info("Event created", zap.String("event", event.ID.Hex()), zap.Time("date", event.Date))
	return event, nil
}

func (s *Service) List(ctx context.Context) ([]*Event, error) {
	events, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return events, nil
}
