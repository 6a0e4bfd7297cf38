package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jeanpaul/jarvis/internal/train"
)

func newTrainCmd() *cobra.Command {
	var maxQuestions int

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Self-train by asking generated questions",
		Long: `train feeds templated questions through the assistant so the knowledge
store grows unattended. Every exchange is appended to the CSV training log.
Use --max 0 to run until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			tr := train.NewTrainer(a.brain, a.cfg.TrainLogPath(), a.log)
			if err := tr.Run(ctx, maxQuestions); err != nil {
				return err
			}
			fmt.Println("training log:", a.cfg.TrainLogPath())
			return nil
		},
	}

	cmd.Flags().IntVar(&maxQuestions, "max", 10, "questions to ask (0 = until interrupted)")
	return cmd
}
