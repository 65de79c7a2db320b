package marketplace

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"campusquery/internal/apperror"
	"campusquery/internal/auth"
)

type Status string

const (
	StatusAvailable Status = "Available"
	StatusSold      Status = "Sold"
	StatusFlagged   Status = "Flagged"
)

var categories = []string{"Books", "Electronics", "Stationery", "Furniture", "Others"}

var conditions = []string{"New", "Like New", "Used", "Damaged"}

// NormalizeCategory maps unknown categories to "Others", the schema default.
func NormalizeCategory(s string) string {
	for _, c := range categories {
		if s == c {
			return c
		}
	}
	return "Others"
}

// NormalizeCondition maps unknown conditions to "Used", the schema default.
func NormalizeCondition(s string) string {
	for _, c := range conditions {
		if s == c {
			return c
		}
	}
	return "Used"
}

type Listing struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Title            string             `bson:"title"`
	Price            float64            `bson:"price"`
	Description      string             `bson:"description"`
	Category         string             `bson:"category"`
	Condition        string             `bson:"condition"`
	SellerID         primitive.ObjectID `bson:"seller"`
	Image            string             `bson:"image,omitempty"`
	Status           Status             `bson:"status"`
	Contact          string             `bson:"contact,omitempty"`
	ModerationReason string             `bson:"moderation_reason,omitempty"`
	CreatedAt        time.Time          `bson:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at"`
}

type CreateListingRequest struct {
	Title       string   `json:"title"`
	Price       *float64 `json:"price"`
	Description string   `json:"description"`
	Category    string   `json:"category,omitempty"`
	Condition   string   `json:"condition,omitempty"`
	Image       string   `json:"image,omitempty"`
	Contact     string   `json:"contact,omitempty"`
}

func (r CreateListingRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return apperror.Validation("Title is required")
	}
	if r.Price == nil {
		return apperror.Validation("Price is required")
	}
	if *r.Price < 0 {
		return apperror.Validation("Price must not be negative")
	}
	if strings.TrimSpace(r.Description) == "" {
		return apperror.Validation("Description is required")
	}
	return nil
}

// SellerInfo is the seller's public slice of the identity record. The
// password hash never appears in listing responses.
type SellerInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ListingView is the API shape of a listing with its seller joined in.
type ListingView struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Price            float64    `json:"price"`
	Description      string     `json:"description"`
	Category         string     `json:"category"`
	Condition        string     `json:"condition"`
	Seller           SellerInfo `json:"seller"`
	Image            string     `json:"image,omitempty"`
	Status           Status     `json:"status"`
	Contact          string     `json:"contact,omitempty"`
	ModerationReason string     `json:"moderationReason,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func NewListingView(listing *Listing, seller *auth.User) ListingView {
	view := ListingView{
		ID:               listing.ID.Hex(),
		Title:            listing.Title,
		Price:            listing.Price,
		Description:      listing.Description,
		Category:         listing.Category,
		Condition:        listing.Condition,
		Image:            listing.Image,
		Status:           listing.Status,
		Contact:          listing.Contact,
		ModerationReason: listing.ModerationReason,
		CreatedAt:        listing.CreatedAt,
		UpdatedAt:        listing.UpdatedAt,
	}
	if seller != nil {
		view.Seller = SellerInfo{ID: seller.ID.Hex(), Name: seller.Name, Email: seller.Email}
	}
	return view
}
