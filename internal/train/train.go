package train

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/jeanpaul/jarvis/internal/brain"
)

var seedTopics = []string{
	"global warming",
	"AI technology",
	"space exploration",
	"medical advances",
	"financial markets",
	"renewable energy",
	"quantum computing",
	"blockchain",
	"robotics",
	"cybersecurity",
}

var dynamicKeywords = []string{
	"impact",
	"future",
	"benefits",
	"challenges",
	"recent breakthroughs",
	"applications",
	"importance",
	"risks",
	"trends",
}

// %[1]s is the keyword, %[2]s the topic.
var templates = []string{
	"What are the %[1]s of %[2]s?",
	"Explain the %[1]s regarding %[2]s.",
	"How does %[2]s relate to %[1]s?",
	"What is new about %[2]s concerning %[1]s?",
}

// Generator produces templated training questions, avoiding repeats while the
// combination space allows.
type Generator struct {
	rng   *rand.Rand
	asked map[string]bool
}

func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng:   rand.New(rand.NewSource(seed)),
		asked: map[string]bool{},
	}
}

// Next returns a question not asked before when possible; after ten attempts
// it gives up and repeats.
func (g *Generator) Next() string {
	var q string
	for i := 0; i < 10; i++ {
		topic := seedTopics[g.rng.Intn(len(seedTopics))]
		keyword := dynamicKeywords[g.rng.Intn(len(dynamicKeywords))]
		tmpl := templates[g.rng.Intn(len(templates))]
		q = fmt.Sprintf(tmpl, keyword, topic)
		if !g.asked[q] {
			break
		}
	}
	g.asked[q] = true
	return q
}

// Asker is the slice of the brain the trainer needs.
type Asker interface {
	Ask(ctx context.Context, prompt string) (brain.Response, error)
}

// Trainer feeds generated questions through the brain so the knowledge store
// grows without a human in the loop. Every exchange is appended to a CSV log.
type Trainer struct {
	brain   Asker
	gen     *Generator
	logPath string
	log     *zap.Logger

	// pause between questions; replaced in tests
	sleep func() time.Duration
}

func NewTrainer(asker Asker, logPath string, log *zap.Logger) *Trainer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Trainer{
		brain:   asker,
		gen:     NewGenerator(time.Now().UnixNano()),
		logPath: logPath,
		log:     log,
		sleep: func() time.Duration {
			return time.Second + time.Duration(rand.Int63n(int64(time.Second)))
		},
	}
}

// Run asks up to maxQuestions (0 means until the context is cancelled),
// logging each exchange. Individual ask failures are logged and skipped; only
// log-file problems abort the run.
func (t *Trainer) Run(ctx context.Context, maxQuestions int) error {
	if err := os.MkdirAll(filepath.Dir(t.logPath), 0755); err != nil {
		return err
	}
	info, statErr := os.Stat(t.logPath)
	fresh := statErr != nil || info.Size() == 0

	f, err := os.OpenFile(t.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("train: open log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if fresh {
		if err := w.Write([]string{"timestamp", "question", "answer", "source"}); err != nil {
			return err
		}
	}

	for count := 0; maxQuestions == 0 || count < maxQuestions; count++ {
		if ctx.Err() != nil {
			break
		}

		question := t.gen.Next()
		resp, err := t.brain.Ask(ctx, question)
		if err != nil {
			t.log.Warn("training question failed", zap.String("question", question), zap.Error(err))
			continue
		}

		if err := w.Write([]string{
			time.Now().UTC().Format(time.RFC3339),
			question,
			resp.Answer,
			resp.Source.String(),
		}); err != nil {
			return fmt.Errorf("train: write log: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return fmt.Errorf("train: flush log: %w", err)
		}

		t.log.Info("trained",
			zap.Int("n", count+1),
			zap.String("question", question),
			zap.String("source", resp.Source.String()),
			zap.Bool("learned", resp.Learned))

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(t.sleep()):
		}
	}
	return nil
}
