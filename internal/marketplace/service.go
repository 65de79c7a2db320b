package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"campusquery/internal/apperror"
	"campusquery/internal/auth"
	"campusquery/internal/config"
	"campusquery/internal/events"
)

const (
	feedCacheKey = "listings:feed"
	feedCacheTTL = 30 * time.Second
)

type Service struct {
	listings ListingStore
	users    auth.UserStore
	bus      *events.Bus
	cache    *redis.Client
	mail     *config.EmailService
	logger   *zap.Logger
}

func NewService(listings ListingStore, users auth.UserStore, bus *events.Bus, cache *redis.Client, mail *config.EmailService, logger *zap.Logger) *Service {
	return &Service{listings: listings, users: users, bus: bus, cache: cache, mail: mail, logger: logger}
}

// CreateListing validates the draft, persists it with status Available and
// announces it on the bus. The caller gets the listing back before moderation
// runs; a flag applied later is visible on the next read.
func (s *Service) CreateListing(ctx context.Context, sellerID primitive.ObjectID, req CreateListingRequest) (ListingView, error) {
	if err := req.Validate(); err != nil {
		return ListingView{}, err
	}

	seller, err := s.users.FindByID(ctx, sellerID)
	if err != nil {
		return ListingView{}, apperror.Internal(err)
	}
	if seller == nil {
		return ListingView{}, apperror.Unauthenticated("Unknown identity")
	}

	now := time.Now().UTC()
	listing := &Listing{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		Price:       *req.Price,
		Description: req.Description,
		Category:    NormalizeCategory(req.Category),
		Condition:   NormalizeCondition(req.Condition),
		SellerID:    sellerID,
		Image:       req.Image,
		Status:      StatusAvailable,
		Contact:     req.Contact,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.listings.Insert(ctx, listing); err != nil {
		return ListingView{}, apperror.Internal(err)
	}

	s.invalidateFeed(ctx)
	s.bus.Publish(events.TopicListingCreated, listing)

	return NewListingView(listing, seller), nil
}

// PublicFilter is the query surface of the public listing feed.
type PublicFilter struct {
	Category string
	Search   string
	SellerID string
}

// ListListings returns the public feed, newest first. Only Available listings
// appear unless a sellerId filter asks for one seller's own listings, which
// includes Sold and Flagged so the profile view matches reality.
func (s *Service) ListListings(ctx context.Context, filter PublicFilter) ([]ListingView, error) {
	query := Filter{Category: filter.Category, Search: filter.Search}
	if filter.SellerID != "" {
		sellerID, err := primitive.ObjectIDFromHex(filter.SellerID)
		if err != nil {
			return nil, apperror.Validation("Invalid sellerId")
		}
		query.SellerID = &sellerID
	} else {
		available := StatusAvailable
		query.Status = &available
	}

	cacheable := filter == (PublicFilter{})
	if cacheable {
		if views, ok := s.feedFromCache(ctx); ok {
			return views, nil
		}
	}

	listings, err := s.listings.Find(ctx, query)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	views, err := s.joinSellers(ctx, listings)
	if err != nil {
		return nil, err
	}
	if cacheable {
		s.feedToCache(ctx, views)
	}
	return views, nil
}

// GetListing returns one listing regardless of status, so the detail view can
// show Sold and Flagged items reached by direct link.
func (s *Service) GetListing(ctx context.Context, id string) (ListingView, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ListingView{}, apperror.NotFound("Listing")
	}
	listing, err := s.listings.FindByID(ctx, objectID)
	if err != nil {
		return ListingView{}, apperror.Internal(err)
	}
	if listing == nil {
		return ListingView{}, apperror.NotFound("Listing")
	}

	seller, err := s.users.FindByID(ctx, listing.SellerID)
	if err != nil {
		return ListingView{}, apperror.Internal(err)
	}
	return NewListingView(listing, seller), nil
}

// MarkSold transitions the caller's Available listing to Sold. Flagged and
// already-Sold listings are left alone.
func (s *Service) MarkSold(ctx context.Context, actorID primitive.ObjectID, id string) (ListingView, error) {
	listing, err := s.ownedListing(ctx, actorID, id, false)
	if err != nil {
		return ListingView{}, err
	}

	updated, err := s.listings.SetStatus(ctx, listing.ID, StatusAvailable, StatusSold, "")
	if err != nil {
		return ListingView{}, apperror.Internal(err)
	}
	if !updated {
		return ListingView{}, apperror.Validation("Only an available listing can be marked sold")
	}
	s.invalidateFeed(ctx)

	listing.Status = StatusSold
	seller, err := s.users.FindByID(ctx, listing.SellerID)
	if err != nil {
		return ListingView{}, apperror.Internal(err)
	}
	return NewListingView(listing, seller), nil
}

// DeleteListing removes a listing for good. Allowed for the owner and for
// admins; flagged listings can only be removed this way, never unflagged.
func (s *Service) DeleteListing(ctx context.Context, actorID primitive.ObjectID, actorRole auth.Role, id string) error {
	admin := actorRole == auth.RoleAdmin
	listing, err := s.ownedListing(ctx, actorID, id, admin)
	if err != nil {
		return err
	}
	if err := s.listings.Delete(ctx, listing.ID); err != nil {
		return apperror.Internal(err)
	}
	s.invalidateFeed(ctx)
	s.logger.Info("Listing deleted",
		zap.String("listing", listing.ID.Hex()), zap.String("actor", actorID.Hex()))
	return nil
}

// EnquiryRequest is a buyer's introduction to a seller. Buying on the portal
// is only a contact exchange; no money or inventory moves.
type EnquiryRequest struct {
	Message string `json:"message"`
	Contact string `json:"contact,omitempty"`
}

// Enquire emails the seller the buyer's details. The listing is not mutated.
func (s *Service) Enquire(ctx context.Context, buyerID primitive.ObjectID, id string, req EnquiryRequest) error {
	if req.Message == "" {
		return apperror.Validation("Message is required")
	}

	listing, err := s.listings.FindByID(ctx, mustObjectID(id))
	if err != nil {
		return apperror.Internal(err)
	}
	if listing == nil {
		return apperror.NotFound("Listing")
	}
	if listing.Status != StatusAvailable {
		return apperror.Validation("Listing is not available")
	}

	buyer, err := s.users.FindByID(ctx, buyerID)
	if err != nil {
		return apperror.Internal(err)
	}
	if buyer == nil {
		return apperror.Unauthenticated("Unknown identity")
	}
	seller, err := s.users.FindByID(ctx, listing.SellerID)
	if err != nil {
		return apperror.Internal(err)
	}
	if seller == nil {
		return apperror.NotFound("Seller")
	}

	subject := fmt.Sprintf("Enquiry about %q on CampusQuery", listing.Title)
	body := fmt.Sprintf(
		"<p><strong>%s</strong> (%s) is interested in your listing <strong>%s</strong>.</p><p>%s</p>",
		html.EscapeString(buyer.Name), html.EscapeString(buyer.Email),
		html.EscapeString(listing.Title), html.EscapeString(req.Message))
	if req.Contact != "" {
		body += fmt.Sprintf("<p>Contact: %s</p>", html.EscapeString(req.Contact))
	}

	if err := s.mail.Send(ctx, seller.Email, subject, body); err != nil {
		s.logger.Error("Enquiry email failed",
			zap.String("listing", listing.ID.Hex()), zap.Error(err))
		return apperror.Internal(err)
	}
	return nil
}

func (s *Service) ownedListing(ctx context.Context, actorID primitive.ObjectID, id string, admin bool) (*Listing, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.NotFound("Listing")
	}
	listing, err := s.listings.FindByID(ctx, objectID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if listing == nil {
		return nil, apperror.NotFound("Listing")
	}
	if !admin && listing.SellerID != actorID {
		return nil, apperror.Forbidden("Not your listing")
	}
	return listing, nil
}

func (s *Service) joinSellers(ctx context.Context, listings []*Listing) ([]ListingView, error) {
	ids := make([]primitive.ObjectID, 0, len(listings))
	seen := make(map[primitive.ObjectID]bool)
	for _, l := range listings {
		if !seen[l.SellerID] {
			seen[l.SellerID] = true
			ids = append(ids, l.SellerID)
		}
	}
	sellers, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	byID := make(map[primitive.ObjectID]*auth.User, len(sellers))
	for _, u := range sellers {
		byID[u.ID] = u
	}

	views := make([]ListingView, 0, len(listings))
	for _, l := range listings {
		views = append(views, NewListingView(l, byID[l.SellerID]))
	}
	return views, nil
}

func (s *Service) feedFromCache(ctx context.Context) ([]ListingView, bool) {
	if s.cache == nil {
		return nil, false
	}
	payload, err := s.cache.Get(ctx, feedCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var views []ListingView
	if err := json.Unmarshal(payload, &views); err != nil {
		return nil, false
	}
	return views, true
}

func (s *Service) feedToCache(ctx context.Context, views []ListingView) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(views)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, feedCacheKey, payload, feedCacheTTL).Err(); err != nil {
		s.logger.Warn("Feed cache write failed", zap.Error(err))
	}
}

// InvalidateFeed drops the cached public feed. The moderation hook calls this
// after flagging so a flagged listing disappears without waiting for the TTL.
func (s *Service) InvalidateFeed(ctx context.Context) {
	s.invalidateFeed(ctx)
}

func (s *Service) invalidateFeed(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, feedCacheKey).Err(); err != nil {
		s.logger.Warn("Feed cache invalidation failed", zap.Error(err))
	}
}

func mustObjectID(id string) primitive.ObjectID {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID
	}
	return objectID
}
