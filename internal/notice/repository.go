package notice

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Filter struct {
	Status   *Status
	Category string
	Search   string
}

// NoticeStore is the notice store contract, mirroring the listing store:
// guarded status transitions so moderation never reverts a record.
type NoticeStore interface {
	Insert(ctx context.Context, notice *Notice) error
	Find(ctx context.Context, filter Filter) ([]*Notice, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, from, to Status, reason string) (bool, error)
}

type NoticeRepository struct {
	collection *mongo.Collection
}

func NewNoticeRepository(db *mongo.Database) *NoticeRepository {
	return &NoticeRepository{collection: db.Collection("notices")}
}

func (r *NoticeRepository) Insert(ctx context.Context, notice *Notice) error {
	_, err := r.collection.InsertOne(ctx, notice)
	return err
}

func (r *NoticeRepository) Find(ctx context.Context, filter Filter) ([]*Notice, error) {
	query := bson.M{}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}
	if filter.Category != "" && filter.Category != "All" {
		query["category"] = filter.Category
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"summary": pattern},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	var notices []*Notice
	if err := cursor.All(ctx, &notices); err != nil {
		return nil, err
	}
	return notices, nil
}

func (r *NoticeRepository) SetStatus(ctx context.Context, id primitive.ObjectID, from, to Status, reason string) (bool, error) {
	set := bson.M{"status": to, "updated_at": time.Now().UTC()}
	if reason != "" {
		set["moderation_reason"] = reason
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}
