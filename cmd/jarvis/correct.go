package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCorrectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "correct <question> <answer>",
		Short: "Replace a stored answer with a verified one",
		Long: `correct overrides what the assistant learned for a question. The
corrected answer is pinned with a confidence above anything reinforcement can
reach, so it keeps winning future conflicts.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.close()

			found, err := a.brain.Correct(args[0], args[1])
			if err != nil {
				return err
			}
			if !found {
				fmt.Printf("no stored answer for %q\n", args[0])
				return nil
			}
			fmt.Println("answer corrected")
			return nil
		},
	}
}
