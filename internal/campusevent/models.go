package campusevent

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"campusquery/internal/apperror"
)

// Event is a campus calendar entry: talks, festivals, tournaments.
type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Date        time.Time          `bson:"date" json:"date"`
	Time        string             `bson:"time" json:"time"`
	Location    string             `bson:"location" json:"location"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	Organizer   string             `bson:"organizer,omitempty" json:"organizer,omitempty"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

type CreateEventRequest struct {
	Title       string     `json:"title"`
	Date        *time.Time `json:"date"`
	Time        string     `json:"time"`
	Location    string     `json:"location"`
	Description string     `json:"description"`
	Category    string     `json:"category,omitempty"`
	Organizer   string     `json:"organizer,omitempty"`
	Image       string     `json:"image,omitempty"`
}

func (r CreateEventRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return apperror.Validation("Title is required")
	}
	if r.Date == nil {
		return apperror.Validation("Date is required")
	}
	if strings.TrimSpace(r.Time) == "" {
		return apperror.Validation("Time is required")
	}
	if strings.TrimSpace(r.Location) == "" {
		return apperror.Validation("Location is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		return apperror.Validation("Description is required")
	}
	return nil
}
