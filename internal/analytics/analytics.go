package analytics

import (
	"sync"
	"time"
)

// Stats collects in-memory usage counters surfaced on the status endpoint.
type Stats struct {
	mu sync.Mutex

	totalCalls       int64
	totalMessages    int64
	completedQueries int64
	totalAnswerTime  time.Duration

	languages map[string]int64
	domains   map[string]int64
}

type Snapshot struct {
	TotalCalls       int64            `json:"total_calls"`
	TotalMessages    int64            `json:"total_messages"`
	CompletedQueries int64            `json:"completed_queries"`
	AvgResponseMS    int64            `json:"avg_response_ms"`
	Languages        map[string]int64 `json:"languages"`
	Domains          map[string]int64 `json:"domains"`
}

func New() *Stats {
	return &Stats{
		languages: make(map[string]int64),
		domains:   make(map[string]int64),
	}
}

func (s *Stats) CallStarted() {
	s.mu.Lock()
	s.totalCalls++
	s.mu.Unlock()
}

func (s *Stats) MessageReceived() {
	s.mu.Lock()
	s.totalMessages++
	s.mu.Unlock()
}

func (s *Stats) LanguageChosen(name string) {
	s.mu.Lock()
	s.languages[name]++
	s.mu.Unlock()
}

func (s *Stats) QueryCompleted(domain string, took time.Duration) {
	s.mu.Lock()
	s.completedQueries++
	s.totalAnswerTime += took
	s.domains[domain]++
	s.mu.Unlock()
}

func (s *Stats) Report() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := Snapshot{
		TotalCalls:       s.totalCalls,
		TotalMessages:    s.totalMessages,
		CompletedQueries: s.completedQueries,
		Languages:        make(map[string]int64, len(s.languages)),
		Domains:          make(map[string]int64, len(s.domains)),
	}
	if s.completedQueries > 0 {
		out.AvgResponseMS = s.totalAnswerTime.Milliseconds() / s.completedQueries
	}
	for k, v := range s.languages {
		out.Languages[k] = v
	}
	for k, v := range s.domains {
		out.Domains[k] = v
	}
	return out
}
