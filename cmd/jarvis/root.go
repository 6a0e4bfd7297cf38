package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeanpaul/jarvis/internal/brain"
	"github.com/jeanpaul/jarvis/internal/config"
	"github.com/jeanpaul/jarvis/internal/knowledge"
	"github.com/jeanpaul/jarvis/internal/logging"
	"github.com/jeanpaul/jarvis/internal/memory"
	"github.com/jeanpaul/jarvis/internal/provider"
	"github.com/jeanpaul/jarvis/internal/search"
)

var debugFlag bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "jarvis",
		Short: "A self-learning local assistant",
		Long: `jarvis answers questions using a local model, enriching prompts with
web search results and everything it has learned from past conversations.
Running it with no subcommand starts an interactive chat.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd)
		},
	}

	root.PersistentFlags().BoolVar(&debugFlag, "debug", false, "verbose logging")

	root.AddCommand(
		newChatCmd(),
		newAskCmd(),
		newCorrectCmd(),
		newTrainCmd(),
		newReportCmd(),
		newServeCmd(),
		newCleanupCmd(),
		newInitCmd(),
	)
	return root
}

// app bundles everything a command needs, wired from config.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	store *knowledge.Store
	mem   *memory.Manager
	agg   *search.Aggregator
	brain *brain.Brain
}

func buildApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(debugFlag)
	if err != nil {
		return nil, err
	}

	store, err := knowledge.NewStore(cfg.KnowledgePath(), log)
	if err != nil {
		return nil, err
	}
	mem := memory.NewManager(cfg.MemoryPath())

	gen := provider.NewOllama(cfg.Provider.BaseURL, cfg.Provider.Model,
		time.Duration(cfg.Provider.TimeoutSeconds)*time.Second)
	agg := search.NewAggregator(
		search.NewDuckDuckGo(cfg.Search.UserAgent, cfg.Search.MaxResults),
		search.NewBing(cfg.Search.UserAgent, cfg.Search.MaxResults),
		gen,
		time.Duration(cfg.Search.TimeoutSeconds)*time.Second,
		log,
	)

	return &app{
		cfg:   cfg,
		log:   log,
		store: store,
		mem:   mem,
		agg:   agg,
		brain: brain.New(store, mem, agg, gen, cfg.Brain.SimilarityThreshold, cfg.Brain.HistorySize, log),
	}, nil
}

func (a *app) close() {
	_ = a.log.Sync()
}
