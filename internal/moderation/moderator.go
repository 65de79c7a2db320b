// Package moderation flags freshly created listings and notices whose text
// contains a deny-listed term. It runs as a bus subscriber: the create call
// has already returned before the scan happens, and a failing scan never
// bubbles anywhere — it is logged and the record keeps its prior status.
package moderation

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"campusquery/internal/events"
	"campusquery/internal/marketplace"
	"campusquery/internal/notice"
)

// denyList order matters: the first matching term wins and names the reason.
var denyList = []string{"fake", "banned", "illegal"}

// Scan reports the first deny-listed term contained in text, matching
// case-insensitively as a substring.
func Scan(text string) (string, bool) {
	lowered := strings.ToLower(text)
	for _, term := range denyList {
		if strings.Contains(lowered, term) {
			return term, true
		}
	}
	return "", false
}

// FeedInvalidator drops any cached public feed after a flag so the flagged
// record disappears without waiting for a TTL.
type FeedInvalidator interface {
	InvalidateFeed(ctx context.Context)
}

type Moderator struct {
	listings marketplace.ListingStore
	notices  notice.NoticeStore
	feed     FeedInvalidator
	logger   *zap.Logger
}

func NewModerator(listings marketplace.ListingStore, notices notice.NoticeStore, feed FeedInvalidator, logger *zap.Logger) *Moderator {
	return &Moderator{listings: listings, notices: notices, feed: feed, logger: logger}
}

// Register subscribes the moderator to record-created events.
func (m *Moderator) Register(bus *events.Bus) {
	bus.Subscribe(events.TopicListingCreated, m.handleListing)
	bus.Subscribe(events.TopicNoticeCreated, m.handleNotice)
}

func (m *Moderator) handleListing(ctx context.Context, event events.Event) {
	listing, ok := event.Record.(*marketplace.Listing)
	if !ok {
		m.logger.Error("Unexpected record on listing topic", zap.String("topic", event.Topic))
		return
	}

	term, found := Scan(listing.Description)
	if !found {
		return
	}

	flagged, err := m.listings.SetStatus(ctx, listing.ID,
		marketplace.StatusAvailable, marketplace.StatusFlagged, "Contains "+term)
	if err != nil {
		m.logger.Error("Failed to flag listing",
			zap.String("listing", listing.ID.Hex()), zap.Error(err))
		return
	}
	if flagged {
		m.logger.Info("Flagged listing",
			zap.String("listing", listing.ID.Hex()), zap.String("term", term))
		if m.feed != nil {
			m.feed.InvalidateFeed(ctx)
		}
	}
}

func (m *Moderator) handleNotice(ctx context.Context, event events.Event) {
	record, ok := event.Record.(*notice.Notice)
	if !ok {
		m.logger.Error("Unexpected record on notice topic", zap.String("topic", event.Topic))
		return
	}

	term, found := Scan(record.Summary)
	if !found {
		return
	}

	flagged, err := m.notices.SetStatus(ctx, record.ID,
		notice.StatusPublished, notice.StatusFlagged, "Contains "+term)
	if err != nil {
		m.logger.Error("Failed to flag notice",
			zap.String("notice", record.ID.Hex()), zap.Error(err))
		return
	}
	if flagged {
		m.logger.Info("Flagged notice",
			zap.String("notice", record.ID.Hex()), zap.String("term", term))
	}
}
