package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// InitialConfidence is assigned to a fact or QA entry on first insert.
	InitialConfidence = 1.0
	// ReinforceIncrement is added to a fact's confidence each time the same
	// (topic, text) pair is seen again.
	ReinforceIncrement = 0.1
	// CorrectionConfidence marks an answer as manually verified. It sits above
	// anything reinforcement can reach so corrected entries win majority
	// resolution.
	CorrectionConfidence = 1.5
	// DefaultSimilarityThreshold is the minimum lexical ratio for a stored
	// question to count as "the same question".
	DefaultSimilarityThreshold = 0.6
)

// Fact is an atomic (topic, text) knowledge unit. The uniqueness key is the
// lowercased trimmed (topic, text) pair; re-seeing the same key reinforces the
// existing entry instead of inserting a duplicate.
type Fact struct {
	ID              string    `json:"id"`
	Topic           string    `json:"topic"`
	Text            string    `json:"text"`
	FirstSeen       time.Time `json:"first_seen"`
	LastSeen        time.Time `json:"last_seen"`
	OccurrenceCount int       `json:"occurrence_count"`
	Confidence      float64   `json:"confidence"`
	TokenCount      int       `json:"token_count"`
	Source          string    `json:"source,omitempty"`
}

// QAEntry is a stored question/answer pair usable as a direct-answer cache.
// The uniqueness key is the lowercased trimmed question.
type QAEntry struct {
	ID         string    `json:"id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Timestamp  time.Time `json:"timestamp"`
	TokenCount int       `json:"token_count"`
	Confidence float64   `json:"confidence"`
	Source     string    `json:"source,omitempty"`
}

type storeData struct {
	Facts []Fact    `json:"facts"`
	QA    []QAEntry `json:"qa"`
}

// Store is a JSON-file-backed repository of facts and QA pairs. Every mutating
// operation rewrites the whole file synchronously; the store assumes a single
// process and a single user.
type Store struct {
	path string
	log  *zap.Logger
	data storeData
	now  func() time.Time
}

// NewStore loads the store at path, creating an empty one if the file is
// missing. A file that fails JSON or schema validation is renamed to
// <path>.corrupt-<unix-ts> and the store starts empty.
func NewStore(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{
		path: path,
		log:  log,
		data: storeData{Facts: []Fact{}, QA: []QAEntry{}},
		now:  time.Now,
	}
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("knowledge: load %s: %w", path, err)
	}
	return s, nil
}

func (s *Store) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if verr := validateStoreJSON(raw); verr != nil {
		backup := fmt.Sprintf("%s.corrupt-%d", s.path, s.now().Unix())
		if rerr := os.Rename(s.path, backup); rerr != nil {
			s.log.Warn("could not back up corrupt knowledge file", zap.Error(rerr))
		}
		s.log.Warn("knowledge file failed validation, starting empty",
			zap.String("backup", backup),
			zap.Error(verr))
		return nil
	}

	var data storeData
	if err := json.Unmarshal(raw, &data); err != nil {
		// Schema validation passed, so this should not happen.
		return err
	}
	if data.Facts == nil {
		data.Facts = []Fact{}
	}
	if data.QA == nil {
		data.QA = []QAEntry{}
	}
	s.data = data
	return nil
}

// Save writes the whole store to disk. A write failure is fatal for the
// calling operation and propagates unchanged.
func (s *Store) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0644)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func tokenCount(s string) int {
	return len(strings.Fields(s))
}

func newID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.New().String()[:8])
}

// AddFacts stores candidate texts under a topic. Known (topic, text) keys are
// reinforced: occurrence count +1, confidence +ReinforceIncrement, last-seen
// refreshed. Empty candidates are skipped silently. Returns true if anything
// was inserted or reinforced; the store persists at most once per call.
func (s *Store) AddFacts(topic string, texts []string, source string) (bool, error) {
	ts := s.now()
	learned := false
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		key := normalize(text)
		topicKey := normalize(topic)

		reinforced := false
		for i := range s.data.Facts {
			f := &s.data.Facts[i]
			if normalize(f.Topic) == topicKey && normalize(f.Text) == key {
				f.OccurrenceCount++
				f.Confidence += ReinforceIncrement
				f.LastSeen = ts
				reinforced = true
				learned = true
				break
			}
		}
		if reinforced {
			continue
		}

		s.data.Facts = append(s.data.Facts, Fact{
			ID:              newID("fact"),
			Topic:           topic,
			Text:            text,
			FirstSeen:       ts,
			LastSeen:        ts,
			OccurrenceCount: 1,
			Confidence:      InitialConfidence,
			TokenCount:      tokenCount(text),
			Source:          source,
		})
		learned = true
	}

	if !learned {
		return false, nil
	}
	return true, s.Save()
}

// AddQA stores a question/answer pair. A pair whose normalized question is
// already present is rejected without mutation.
func (s *Store) AddQA(question, answer, source string) (bool, error) {
	q := normalize(question)
	for _, e := range s.data.QA {
		if normalize(e.Question) == q {
			return false, nil
		}
	}
	s.data.QA = append(s.data.QA, QAEntry{
		ID:         newID("qa"),
		Question:   strings.TrimSpace(question),
		Answer:     strings.TrimSpace(answer),
		Timestamp:  s.now(),
		TokenCount: tokenCount(answer),
		Confidence: InitialConfidence,
		Source:     source,
	})
	return true, s.Save()
}

// UpdateAnswer replaces the answer of the entry matching the normalized
// question. A confidence override <= 0 keeps the entry's current confidence.
// No-op (false, nil) when the question is unknown.
func (s *Store) UpdateAnswer(question, newAnswer string, confidence float64) (bool, error) {
	q := normalize(question)
	for i := range s.data.QA {
		e := &s.data.QA[i]
		if normalize(e.Question) != q {
			continue
		}
		e.Answer = strings.TrimSpace(newAnswer)
		e.Timestamp = s.now()
		e.TokenCount = tokenCount(newAnswer)
		if confidence > 0 {
			e.Confidence = confidence
		}
		return true, s.Save()
	}
	return false, nil
}

// FindSimilarQuestion returns the stored entry whose question is lexically
// closest to the input, provided the ratio meets the threshold. Ties keep the
// first entry in insertion order. Returns nil when nothing qualifies.
func (s *Store) FindSimilarQuestion(question string, threshold float64) *QAEntry {
	q := normalize(question)
	best := -1
	bestScore := 0.0
	for i, e := range s.data.QA {
		score := Ratio(q, normalize(e.Question))
		if score >= threshold && score > bestScore {
			bestScore = score
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	e := s.data.QA[best]
	return &e
}

// GetFacts returns all facts whose topic matches case-insensitively.
func (s *Store) GetFacts(topic string) []Fact {
	key := normalize(topic)
	var out []Fact
	for _, f := range s.data.Facts {
		if normalize(f.Topic) == key {
			out = append(out, f)
		}
	}
	return out
}

// GetQA returns the entry whose normalized question matches exactly, or nil.
func (s *Store) GetQA(question string) *QAEntry {
	q := normalize(question)
	for _, e := range s.data.QA {
		if normalize(e.Question) == q {
			entry := e
			return &entry
		}
	}
	return nil
}

// Facts returns a copy of all stored facts in insertion order.
func (s *Store) Facts() []Fact {
	out := make([]Fact, len(s.data.Facts))
	copy(out, s.data.Facts)
	return out
}

// QA returns a copy of all stored QA entries in insertion order.
func (s *Store) QA() []QAEntry {
	out := make([]QAEntry, len(s.data.QA))
	copy(out, s.data.QA)
	return out
}

// Deduplicate removes entries sharing a uniqueness key, keeping the first
// occurrence. Idempotent; persists only when something was removed.
func (s *Store) Deduplicate() error {
	changed := false

	seenFacts := map[[2]string]bool{}
	uniqueFacts := s.data.Facts[:0:0]
	for _, f := range s.data.Facts {
		key := [2]string{normalize(f.Topic), normalize(f.Text)}
		if seenFacts[key] {
			changed = true
			continue
		}
		seenFacts[key] = true
		uniqueFacts = append(uniqueFacts, f)
	}
	s.data.Facts = uniqueFacts

	seenQ := map[string]bool{}
	uniqueQA := s.data.QA[:0:0]
	for _, e := range s.data.QA {
		q := normalize(e.Question)
		if seenQ[q] {
			changed = true
			continue
		}
		seenQ[q] = true
		uniqueQA = append(uniqueQA, e)
	}
	s.data.QA = uniqueQA

	if !changed {
		return nil
	}
	return s.Save()
}

// Prune removes facts that are both older than maxAgeDays (by last-seen) and
// reinforced at most minOccurrence times. Well-reinforced facts survive
// regardless of age. Returns the number removed.
func (s *Store) Prune(maxAgeDays, minOccurrence int) (int, error) {
	cutoff := s.now().AddDate(0, 0, -maxAgeDays)
	kept := s.data.Facts[:0:0]
	removed := 0
	for _, f := range s.data.Facts {
		if f.LastSeen.Before(cutoff) && f.OccurrenceCount <= minOccurrence {
			removed++
			continue
		}
		kept = append(kept, f)
	}
	if removed == 0 {
		return 0, nil
	}
	s.data.Facts = kept
	return removed, s.Save()
}

// CleanupLowQuality removes facts and QA entries below the token-count floor.
// Filters out noise and truncated retrieval garbage. Returns the number removed.
func (s *Store) CleanupLowQuality(minTokens int) (int, error) {
	removed := 0

	keptFacts := s.data.Facts[:0:0]
	for _, f := range s.data.Facts {
		if f.TokenCount < minTokens {
			removed++
			continue
		}
		keptFacts = append(keptFacts, f)
	}
	s.data.Facts = keptFacts

	keptQA := s.data.QA[:0:0]
	for _, e := range s.data.QA {
		if e.TokenCount < minTokens {
			removed++
			continue
		}
		keptQA = append(keptQA, e)
	}
	s.data.QA = keptQA

	if removed == 0 {
		return 0, nil
	}
	return removed, s.Save()
}
