package marketplace

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Filter narrows listing queries. A nil Status means any status.
type Filter struct {
	Status   *Status
	Category string
	Search   string
	SellerID *primitive.ObjectID
}

// ListingStore is the listing store contract. FindByID returns (nil, nil)
// when no listing matches. SetStatus applies a guarded transition and reports
// whether a record in the expected prior status was updated.
type ListingStore interface {
	Insert(ctx context.Context, listing *Listing) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Listing, error)
	Find(ctx context.Context, filter Filter) ([]*Listing, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, from, to Status, reason string) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ListingRepository struct {
	collection *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{collection: db.Collection("listings")}
}

func (r *ListingRepository) Insert(ctx context.Context, listing *Listing) error {
	_, err := r.collection.InsertOne(ctx, listing)
	return err
}

func (r *ListingRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Listing, error) {
	var listing Listing
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&listing)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &listing, nil
}

func (r *ListingRepository) Find(ctx context.Context, filter Filter) ([]*Listing, error) {
	query := bson.M{}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.SellerID != nil {
		query["seller"] = *filter.SellerID
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	var listings []*Listing
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *ListingRepository) SetStatus(ctx context.Context, id primitive.ObjectID, from, to Status, reason string) (bool, error) {
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

func (r *ListingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
