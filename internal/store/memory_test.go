package store

import (
	"sync"
	"testing"
	"time"

	"github.com/nyayaline/gateway/internal/models"
)

func newTestStore(t *testing.T) *Memory {
	t.Helper()
	m := NewMemory(0, 0, nil)
	t.Cleanup(m.Close)
	return m
}

func TestGetOrCreateDefaults(t *testing.T) {
	m := newTestStore(t)

	s := m.GetOrCreate("CA100", models.ChannelVoice)
	if s.Stage != models.StageGreeting {
		t.Errorf("expected greeting stage on create, got %q", s.Stage)
	}
	if s.Channel != models.ChannelVoice {
		t.Errorf("expected voice channel, got %q", s.Channel)
	}
	if m.Count() != 1 {
		t.Errorf("expected 1 session, got %d", m.Count())
	}
}

func TestMutationVisibleAcrossCalls(t *testing.T) {
	m := newTestStore(t)

	s := m.GetOrCreate("CA100", models.ChannelVoice)
	s.Stage = models.StageAskingQuestion
	s.DomainKey = "1"

	again, ok := m.Get("CA100")
	if !ok {
		t.Fatal("session disappeared")
	}
	if again.Stage != models.StageAskingQuestion || again.DomainKey != "1" {
		t.Errorf("mutation not visible: stage=%q domain=%q", again.Stage, again.DomainKey)
	}
}

func TestDelete(t *testing.T) {
	m := newTestStore(t)

	m.GetOrCreate("CA100", models.ChannelVoice)
	m.Delete("CA100")
	if _, ok := m.Get("CA100"); ok {
		t.Error("expected session gone after delete")
	}
	// deleting a missing key is a no-op
	m.Delete("CA100")
}

func TestDoSerializesPerConversation(t *testing.T) {
	m := newTestStore(t)
	s := m.GetOrCreate("CA100", models.ChannelChat)

	const n = 50
	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Do("CA100", func() {
				// unsynchronized increment; only per-key locking makes it safe
				counter++
				s.LastAnswer = "seen"
			})
		}()
	}
	wg.Wait()

	if counter != n {
		t.Errorf("interleaved mutations: expected %d, got %d", n, counter)
	}
}

func TestDoReleasesLockEntries(t *testing.T) {
	m := newTestStore(t)
	m.Do("CA100", func() {})
	m.mu.Lock()
	n := len(m.locks)
	m.mu.Unlock()
	if n != 0 {
		t.Errorf("expected lock map drained, found %d entries", n)
	}
}

func TestSweepDropsIdleSessions(t *testing.T) {
	m := NewMemory(20*time.Millisecond, 10*time.Millisecond, nil)
	defer m.Close()

	s := m.GetOrCreate("CA100", models.ChannelVoice)
	s.UpdatedAt = time.Now().UTC().Add(-time.Minute)
	m.GetOrCreate("CA200", models.ChannelVoice).UpdatedAt = time.Now().UTC()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if _, ok := m.Get("CA100"); !ok {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	if _, ok := m.Get("CA100"); ok {
		t.Error("idle session survived the sweep")
	}
	if _, ok := m.Get("CA200"); !ok {
		t.Error("fresh session was swept")
	}
}

func TestSnapshotCopies(t *testing.T) {
	m := newTestStore(t)
	m.GetOrCreate("CA100", models.ChannelVoice)

	snap := m.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(snap))
	}
	snap[0].Stage = models.StageFollowUp

	s, _ := m.Get("CA100")
	if s.Stage != models.StageGreeting {
		t.Error("snapshot aliases live session data")
	}
}
