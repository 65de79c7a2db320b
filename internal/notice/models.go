package notice

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"campusquery/internal/apperror"
)

type Status string

const (
	StatusPublished Status = "Published"
	StatusFlagged   Status = "Flagged"
)

type Notice struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title            string             `bson:"title" json:"title"`
	Category         string             `bson:"category" json:"category"`
	Date             time.Time          `bson:"date" json:"date"`
	Summary          string             `bson:"summary" json:"summary"`
	Important        bool               `bson:"important" json:"important"`
	Content          string             `bson:"content,omitempty" json:"content,omitempty"`
	Status           Status             `bson:"status" json:"status"`
	ModerationReason string             `bson:"moderation_reason,omitempty" json:"moderationReason,omitempty"`
	CreatedAt        time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updatedAt"`
}

type CreateNoticeRequest struct {
	Title     string     `json:"title"`
	Category  string     `json:"category"`
	Date      *time.Time `json:"date,omitempty"`
	Summary   string     `json:"summary"`
	Important bool       `json:"important,omitempty"`
	Content   string     `json:"content,omitempty"`
}

func (r CreateNoticeRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return apperror.Validation("Title is required")
	}
	if strings.TrimSpace(r.Category) == "" {
		return apperror.Validation("Category is required")
	}
	if strings.TrimSpace(r.Summary) == "" {
		return apperror.Validation("Summary is required")
	}
	return nil
}
