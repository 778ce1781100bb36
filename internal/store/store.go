package store

import "github.com/nyayaline/gateway/internal/models"

// Store holds the active conversation sessions. Mutation of a returned
// session is visible to later calls for the same identifier.
//
// Duplicate webhook deliveries for one conversation must not interleave
// their read-modify-write cycles, so implementations serialize access per
// conversation identifier; callers mutate sessions only inside Do.
type Store interface {
	Get(conversationID string) (*models.Session, bool)
	GetOrCreate(conversationID string, ch models.Channel) *models.Session
	Delete(conversationID string)

	// Do runs fn while holding the per-conversation lock.
	Do(conversationID string, fn func())

	Count() int
	Snapshot() []models.Session

	Close()
}
