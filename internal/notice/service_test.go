package notice

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"campusquery/internal/apperror"
	"campusquery/internal/events"
)

type memNotices struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*Notice
}

func newMemNotices() *memNotices {
	return &memNotices{items: make(map[primitive.ObjectID]*Notice)}
}

func (m *memNotices) Insert(_ context.Context, notice *Notice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *notice
	m.items[notice.ID] = &copied
	return nil
}

func (m *memNotices) Find(_ context.Context, filter Filter) ([]*Notice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Notice
	for _, n := range m.items {
		if filter.Status != nil && n.Status != *filter.Status {
			continue
		}
		if filter.Category != "" && filter.Category != "All" && n.Category != filter.Category {
			continue
		}
		if filter.Search != "" {
			s := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(n.Title), s) && !strings.Contains(strings.ToLower(n.Summary), s) {
				continue
			}
		}
		copied := *n
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *memNotices) SetStatus(_ context.Context, id primitive.ObjectID, from, to Status, reason string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.items[id]
	if !ok || n.Status != from {
		return false, nil
	}
	n.Status = to
	if reason != "" {
		n.ModerationReason = reason
	}
	return true, nil
}

func newTestNoticeService(t *testing.T) (*Service, *memNotices, *events.Bus) {
	t.Helper()
	store := newMemNotices()
	bus := events.NewBus(zap.NewNop())
	return NewService(store, bus, zap.NewNop()), store, bus
}

func TestCreateNotice(t *testing.T) {
	service, _, bus := newTestNoticeService(t)

	announced := make(chan *Notice, 1)
	bus.Subscribe(events.TopicNoticeCreated, func(ctx context.Context, event events.Event) {
		if n, ok := event.Record.(*Notice); ok {
			announced <- n
		}
	})

	created, err := service.Create(context.Background(), CreateNoticeRequest{
		Title:     "Exam Schedule",
		Category:  "Exams",
		Summary:   "Final schedule for the spring end-semester exams.",
		Important: true,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPublished, created.Status)
	assert.False(t, created.Date.IsZero())

	select {
	case n := <-announced:
		assert.Equal(t, created.ID, n.ID)
	case <-time.After(time.Second):
		t.Fatal("notice creation was not announced on the bus")
	}
}

func TestCreateNoticeValidation(t *testing.T) {
	service, store, _ := newTestNoticeService(t)

	tests := []struct {
		name string
		req  CreateNoticeRequest
	}{
		{"missing title", CreateNoticeRequest{Category: "Exams", Summary: "s"}},
		{"missing category", CreateNoticeRequest{Title: "t", Summary: "s"}},
		{"missing summary", CreateNoticeRequest{Title: "t", Category: "Exams"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, apperror.CodeValidation, apperror.Code(err))
		})
	}

	all, err := store.Find(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestListNotices(t *testing.T) {
	service, store, _ := newTestNoticeService(t)
	ctx := context.Background()

	older := time.Now().Add(-48 * time.Hour)
	newer := time.Now().Add(-1 * time.Hour)

	_, err := service.Create(ctx, CreateNoticeRequest{
		Title: "Wifi maintenance", Category: "General", Summary: "Wifi down on Sunday", Date: &older,
	})
	require.NoError(t, err)
	newest, err := service.Create(ctx, CreateNoticeRequest{
		Title: "Exam Schedule", Category: "Exams", Summary: "Spring exams announced", Date: &newer,
	})
	require.NoError(t, err)
	flagged, err := service.Create(ctx, CreateNoticeRequest{
		Title: "Suspicious", Category: "General", Summary: "banned material notice", Date: &newer,
	})
	require.NoError(t, err)

	_, err = store.SetStatus(ctx, flagged.ID, StatusPublished, StatusFlagged, "Contains banned")
	require.NoError(t, err)

	t.Run("newest date first, flagged hidden", func(t *testing.T) {
		notices, err := service.List(ctx, "", "")
		require.NoError(t, err)
		require.Len(t, notices, 2)
		assert.Equal(t, newest.ID, notices[0].ID)
	})

	t.Run("category filter", func(t *testing.T) {
		notices, err := service.List(ctx, "Exams", "")
		require.NoError(t, err)
		require.Len(t, notices, 1)
		assert.Equal(t, "Exam Schedule", notices[0].Title)
	})

	t.Run("search over title and summary", func(t *testing.T) {
		notices, err := service.List(ctx, "", "WIFI")
		require.NoError(t, err)
		require.Len(t, notices, 1)
	})
}
