package live

import (
	"sync"

	"github.com/google/uuid"
	"github.com/hndlyt/releaseboard-backend/pkg/db/models"
)

// Hub fans per-user record snapshots out to watch streams. One slot per
// (user, collection) pair, created lazily.
type Hub struct {
	mu          sync.Mutex
	releases    map[uuid.UUID]*Slot[[]models.Release]
	submissions map[uuid.UUID]*Slot[[]models.Submission]
}

// NewHub constructs an empty hub.
func NewHub() *Hub {
	return &Hub{
		releases:    make(map[uuid.UUID]*Slot[[]models.Release]),
		submissions: make(map[uuid.UUID]*Slot[[]models.Submission]),
	}
}

// PublishReleases replaces the user's release snapshot.
func (h *Hub) PublishReleases(userID uuid.UUID, releases []models.Release) {
	h.releaseSlot(userID).Publish(releases)
}

// WatchReleases subscribes to the user's release snapshots.
func (h *Hub) WatchReleases(userID uuid.UUID) (<-chan []models.Release, func()) {
	return h.releaseSlot(userID).Subscribe()
}

// PublishSubmissions replaces the user's submission snapshot.
func (h *Hub) PublishSubmissions(userID uuid.UUID, submissions []models.Submission) {
	h.submissionSlot(userID).Publish(submissions)
}

// WatchSubmissions subscribes to the user's submission snapshots.
func (h *Hub) WatchSubmissions(userID uuid.UUID) (<-chan []models.Submission, func()) {
	return h.submissionSlot(userID).Subscribe()
}

func (h *Hub) releaseSlot(userID uuid.UUID) *Slot[[]models.Release] {
	h.mu.Lock()
	defer h.mu.Unlock()
	slot, ok := h.releases[userID]
	if !ok {
		slot = NewSlot[[]models.Release]()
		h.releases[userID] = slot
	}
	return slot
}

func (h *Hub) submissionSlot(userID uuid.UUID) *Slot[[]models.Submission] {
	h.mu.Lock()
	defer h.mu.Unlock()
	slot, ok := h.submissions[userID]
	if !ok {
		slot = NewSlot[[]models.Submission]()
		h.submissions[userID] = slot
	}
	return slot
}
