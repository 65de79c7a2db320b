package campusevent

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EventStore is the event store contract. Events are write-once: no status
// machine, no moderation fields.
type EventStore interface {
	Insert(ctx context.Context, event *Event) error
	FindAll(ctx context.Context) ([]*Event, error)
}

type EventRepository struct {
	collection *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{collection: db.Collection("events")}
}

func (r *EventRepository) Insert(ctx context.Context, event *Event) error {
	_, err := r.collection.InsertOne(ctx, event)
	return err
}

// FindAll returns every event sorted by date ascending, soonest first.
func (r *EventRepository) FindAll(ctx context.Context) ([]*Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var events []*Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
