package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Prune stale and low-quality knowledge",
		Long: `cleanup removes facts that are both old and rarely reinforced, drops
entries too short to carry real information, and deduplicates the store.
Thresholds come from the brain section of the config.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.close()

			pruned, err := a.store.Prune(a.cfg.Brain.PruneMaxAgeDays, a.cfg.Brain.PruneMinOccurrence)
			if err != nil {
				return err
			}
			lowQuality, err := a.store.CleanupLowQuality(a.cfg.Brain.MinFactTokens)
			if err != nil {
				return err
			}
			if err := a.store.Deduplicate(); err != nil {
				return err
			}

			fmt.Printf("pruned %d stale facts, removed %d low-quality entries\n", pruned, lowQuality)
			fmt.Printf("store now holds %d facts, %d QA pairs\n", len(a.store.Facts()), len(a.store.QA()))
			return nil
		},
	}
}
