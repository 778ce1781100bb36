package store

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nyayaline/gateway/internal/models"
)

// Memory is the in-process Store. A janitor goroutine drops sessions whose
// last update is older than the idle TTL, so abandoned calls cannot grow the
// map without bound.
type Memory struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
	locks    map[string]*convoLock

	ttl    time.Duration
	log    *logrus.Logger
	stopCh chan struct{}
	once   sync.Once
}

type convoLock struct {
	mu   sync.Mutex
	refs int
}

func NewMemory(ttl, sweepInterval time.Duration, log *logrus.Logger) *Memory {
	m := &Memory{
		sessions: make(map[string]*models.Session),
		locks:    make(map[string]*convoLock),
		ttl:      ttl,
		log:      log,
		stopCh:   make(chan struct{}),
	}
	if ttl > 0 && sweepInterval > 0 {
		go m.sweep(sweepInterval)
	}
	return m
}

func (m *Memory) Get(id string) (*models.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *Memory) GetOrCreate(id string, ch models.Channel) *models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s
	}
	now := time.Now().UTC()
	s := &models.Session{
		ConversationID: id,
		Channel:        ch,
		Stage:          models.StageGreeting,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	m.sessions[id] = s
	return s
}

func (m *Memory) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Do serializes handling per conversation. The lock entry is reference
// counted so the locks map shrinks back after concurrent deliveries settle.
func (m *Memory) Do(id string, fn func()) {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &convoLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	defer func() {
		l.mu.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}()

	fn()
}

func (m *Memory) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Memory) Snapshot() []models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, *s)
	}
	return out
}

func (m *Memory) Close() {
	m.once.Do(func() { close(m.stopCh) })
}

func (m *Memory) sweep(interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-m.stopCh:
			return
		case <-t.C:
			cutoff := time.Now().UTC().Add(-m.ttl)
			var dropped int
			m.mu.Lock()
			for id, s := range m.sessions {
				if s.UpdatedAt.Before(cutoff) {
					delete(m.sessions, id)
					dropped++
				}
			}
			m.mu.Unlock()
			if dropped > 0 && m.log != nil {
				m.log.WithField("dropped", dropped).Debug("idle sessions expired")
			}
		}
	}
}
