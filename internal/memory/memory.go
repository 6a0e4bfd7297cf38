package memory

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Exchange is one prompt/answer pair in the full-history log.
type Exchange struct {
	Prompt    string    `json:"prompt"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

// Stats tracks running counters across sessions.
type Stats struct {
	Queries int `json:"queries"`
	Learned int `json:"learned"`
}

type sessionData struct {
	LastPrompt string     `json:"last_prompt"`
	LastAnswer string     `json:"last_answer"`
	Knowledge  []Exchange `json:"knowledge"`
	Stats      Stats      `json:"stats"`
}

// Manager is the session memory file: the last exchange, the append-only
// exchange log, and counters. Distinct from the knowledge store, which holds
// curated facts; this is the raw record of everything asked and answered.
type Manager struct {
	mu   sync.RWMutex
	path string
	data sessionData
}

// NewManager loads session memory from path. A missing or unreadable file
// starts an empty session.
func NewManager(path string) *Manager {
	m := &Manager{path: path}
	_ = m.Load()
	return m
}

// Load reads memory from disk.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(raw, &m.data)
}

// Save writes memory to disk.
func (m *Manager) Save() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(m.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.path, raw, 0644)
}

// RecordExchange appends a prompt/answer pair to the log, updates the last
// exchange and counters, and persists.
func (m *Manager) RecordExchange(prompt, answer string, learned bool) error {
	m.mu.Lock()
	m.data.LastPrompt = prompt
	m.data.LastAnswer = answer
	m.data.Knowledge = append(m.data.Knowledge, Exchange{
		Prompt:    prompt,
		Answer:    answer,
		Timestamp: time.Now(),
	})
	m.data.Stats.Queries++
	if learned {
		m.data.Stats.Learned++
	}
	m.mu.Unlock()

	return m.Save()
}

// LastExchange returns the most recent prompt and answer.
func (m *Manager) LastExchange() (prompt, answer string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.LastPrompt, m.data.LastAnswer
}

// Exchanges returns a copy of the full exchange log.
func (m *Manager) Exchanges() []Exchange {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Exchange, len(m.data.Knowledge))
	copy(out, m.data.Knowledge)
	return out
}

// Counters returns the running stats.
func (m *Manager) Counters() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.Stats
}
