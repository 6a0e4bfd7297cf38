package knowledge

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "knowledge.json"), nil)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return s
}

func TestAddFactsReinforcement(t *testing.T) {
	s := newTestStore(t)

	learned, err := s.AddFacts("capital of France", []string{"Paris is the capital of France"}, "duckduckgo")
	if err != nil {
		t.Fatalf("AddFacts failed: %v", err)
	}
	if !learned {
		t.Error("first insert should report learned")
	}

	// Same key modulo case and whitespace reinforces instead of duplicating
	learned, err = s.AddFacts("Capital of France", []string{"  PARIS is the capital of France  "}, "bing")
	if err != nil {
		t.Fatalf("AddFacts reinforce failed: %v", err)
	}
	if !learned {
		t.Error("reinforcement should report learned")
	}

	facts := s.GetFacts("capital of france")
	if len(facts) != 1 {
		t.Fatalf("expected 1 fact after reinforcement, got %d", len(facts))
	}
	f := facts[0]
	if f.OccurrenceCount != 2 {
		t.Errorf("occurrence count = %d, want 2", f.OccurrenceCount)
	}
	if f.Confidence != InitialConfidence+ReinforceIncrement {
		t.Errorf("confidence = %v, want %v", f.Confidence, InitialConfidence+ReinforceIncrement)
	}
	if f.LastSeen.Before(f.FirstSeen) {
		t.Error("last seen older than first seen")
	}
}

func TestAddFactsSkipsEmpty(t *testing.T) {
	s := newTestStore(t)

	learned, err := s.AddFacts("topic", []string{"", "   ", "\t"}, "")
	if err != nil {
		t.Fatalf("AddFacts failed: %v", err)
	}
	if learned {
		t.Error("empty candidates should not count as learned")
	}
	if len(s.Facts()) != 0 {
		t.Errorf("store should stay empty, has %d facts", len(s.Facts()))
	}
	// Nothing changed, so nothing was persisted
	if _, err := os.Stat(s.path); !os.IsNotExist(err) {
		t.Error("no-op AddFacts should not write the store file")
	}
}

func TestAddFactsTokenCount(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.AddFacts("go", []string{"Go compiles fast"}, ""); err != nil {
		t.Fatal(err)
	}
	if got := s.Facts()[0].TokenCount; got != 3 {
		t.Errorf("token count = %d, want 3", got)
	}
}

func TestAddQAIdempotent(t *testing.T) {
	s := newTestStore(t)

	inserted, err := s.AddQA("What is Go?", "A programming language.", "ollama")
	if err != nil {
		t.Fatalf("AddQA failed: %v", err)
	}
	if !inserted {
		t.Error("first AddQA should insert")
	}

	inserted, err = s.AddQA("  what is go?  ", "Something else entirely.", "ollama")
	if err != nil {
		t.Fatalf("second AddQA failed: %v", err)
	}
	if inserted {
		t.Error("duplicate question must be rejected")
	}

	qa := s.QA()
	if len(qa) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(qa))
	}
	if qa[0].Answer != "A programming language." {
		t.Errorf("duplicate insert mutated the answer: %q", qa[0].Answer)
	}
}

func TestUpdateAnswer(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.AddQA("What is Go?", "short", ""); err != nil {
		t.Fatal(err)
	}

	found, err := s.UpdateAnswer("what is go?", "A statically typed language from Google.", 0)
	if err != nil {
		t.Fatalf("UpdateAnswer failed: %v", err)
	}
	if !found {
		t.Fatal("UpdateAnswer did not find the entry")
	}

	e := s.QA()[0]
	if e.Answer != "A statically typed language from Google." {
		t.Errorf("answer not replaced: %q", e.Answer)
	}
	if e.Confidence != InitialConfidence {
		t.Errorf("confidence changed without override: %v", e.Confidence)
	}
	if e.TokenCount != 6 {
		t.Errorf("token count not refreshed: %d", e.TokenCount)
	}

	// Correction path raises confidence above the reinforcement ceiling
	if _, err := s.UpdateAnswer("What is Go?", "Corrected.", CorrectionConfidence); err != nil {
		t.Fatal(err)
	}
	if got := s.QA()[0].Confidence; got != CorrectionConfidence {
		t.Errorf("confidence = %v, want %v", got, CorrectionConfidence)
	}

	found, err = s.UpdateAnswer("never asked", "x", 0)
	if err != nil {
		t.Fatalf("UpdateAnswer on missing question errored: %v", err)
	}
	if found {
		t.Error("UpdateAnswer reported success for unknown question")
	}
}

func TestDeduplicateFixedPoint(t *testing.T) {
	s := newTestStore(t)
	ts := time.Now()

	// Seed duplicates directly, bypassing AddFacts' own merging
	s.data.Facts = []Fact{
		{ID: "a", Topic: "go", Text: "Go is fast", FirstSeen: ts, LastSeen: ts, OccurrenceCount: 1, Confidence: 1, TokenCount: 3},
		{ID: "b", Topic: "GO", Text: "go is FAST", FirstSeen: ts, LastSeen: ts, OccurrenceCount: 1, Confidence: 1, TokenCount: 3},
		{ID: "c", Topic: "go", Text: "Go has goroutines", FirstSeen: ts, LastSeen: ts, OccurrenceCount: 1, Confidence: 1, TokenCount: 3},
	}
	s.data.QA = []QAEntry{
		{ID: "q1", Question: "What is Go?", Answer: "first", Timestamp: ts, TokenCount: 1, Confidence: 1},
		{ID: "q2", Question: "what is go?", Answer: "second", Timestamp: ts, TokenCount: 1, Confidence: 1},
	}

	if err := s.Deduplicate(); err != nil {
		t.Fatalf("Deduplicate failed: %v", err)
	}
	if len(s.data.Facts) != 2 || len(s.data.QA) != 1 {
		t.Fatalf("after dedup: %d facts, %d qa; want 2, 1", len(s.data.Facts), len(s.data.QA))
	}
	if s.data.Facts[0].ID != "a" || s.data.QA[0].Answer != "first" {
		t.Error("dedup did not preserve first occurrence")
	}

	// Second run is a stable fixed point
	before := len(s.data.Facts) + len(s.data.QA)
	if err := s.Deduplicate(); err != nil {
		t.Fatalf("second Deduplicate failed: %v", err)
	}
	if len(s.data.Facts)+len(s.data.QA) != before {
		t.Error("second dedup changed the store")
	}
}

func TestPruneKeepsReinforcedFacts(t *testing.T) {
	s := newTestStore(t)
	old := time.Now().AddDate(0, 0, -40)

	s.data.Facts = []Fact{
		{ID: "stale", Topic: "t", Text: "seen once, 40 days ago", FirstSeen: old, LastSeen: old, OccurrenceCount: 1, Confidence: 1, TokenCount: 5},
		{ID: "kept", Topic: "t", Text: "seen twice, 40 days ago", FirstSeen: old, LastSeen: old, OccurrenceCount: 2, Confidence: 1.1, TokenCount: 5},
		{ID: "fresh", Topic: "t", Text: "seen today", FirstSeen: time.Now(), LastSeen: time.Now(), OccurrenceCount: 1, Confidence: 1, TokenCount: 2},
	}

	removed, err := s.Prune(30, 1)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	for _, f := range s.data.Facts {
		if f.ID == "stale" {
			t.Error("stale low-occurrence fact survived prune")
		}
	}
	if len(s.data.Facts) != 2 {
		t.Errorf("facts left = %d, want 2", len(s.data.Facts))
	}
}

func TestCleanupLowQuality(t *testing.T) {
	s := newTestStore(t)
	ts := time.Now()

	s.data.Facts = []Fact{
		{ID: "ok", Topic: "t", Text: "three whole tokens", FirstSeen: ts, LastSeen: ts, OccurrenceCount: 1, Confidence: 1, TokenCount: 3},
		{ID: "junk", Topic: "t", Text: "eh", FirstSeen: ts, LastSeen: ts, OccurrenceCount: 1, Confidence: 1, TokenCount: 1},
	}
	s.data.QA = []QAEntry{
		{ID: "q", Question: "why", Answer: "no", Timestamp: ts, TokenCount: 1, Confidence: 1},
	}

	removed, err := s.CleanupLowQuality(3)
	if err != nil {
		t.Fatalf("CleanupLowQuality failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if len(s.data.Facts) != 1 || s.data.Facts[0].ID != "ok" {
		t.Error("cleanup removed the wrong facts")
	}
	if len(s.data.QA) != 0 {
		t.Error("low-token QA entry survived cleanup")
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "knowledge.json")

	s, err := NewStore(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddFacts("go", []string{"Go compiles to native code"}, "duckduckgo"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddQA("What is Go?", "A language.", "ollama"); err != nil {
		t.Fatal(err)
	}

	s2, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(s2.Facts()) != 1 || len(s2.QA()) != 1 {
		t.Fatalf("reloaded store: %d facts, %d qa", len(s2.Facts()), len(s2.QA()))
	}
	if s2.Facts()[0].Source != "duckduckgo" {
		t.Errorf("source lost on round trip: %q", s2.Facts()[0].Source)
	}
}

func TestCorruptFileBackedUpAndReset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "knowledge.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("NewStore should reset on corrupt file, got: %v", err)
	}
	if len(s.Facts()) != 0 || len(s.QA()) != 0 {
		t.Error("store not empty after corrupt load")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	backedUp := false
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "knowledge.json.corrupt-") {
			backedUp = true
		}
	}
	if !backedUp {
		t.Error("corrupt file was not backed up")
	}
}

func TestSchemaViolationAlsoResets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "knowledge.json")
	// Valid JSON, wrong shape: facts must be an array
	if err := os.WriteFile(path, []byte(`{"facts": "oops", "qa": []}`), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if len(s.Facts()) != 0 {
		t.Error("schema-invalid store was not reset")
	}
}

func TestMissingFileMeansEmptyStore(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "nope", "knowledge.json"), nil)
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(s.Facts()) != 0 || len(s.QA()) != 0 {
		t.Error("store not empty for missing file")
	}
}
