package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeanpaul/jarvis/internal/report"
)

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print a summary of what the assistant knows",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.close()

			fmt.Println(report.Generate(a.store, a.mem))
			return nil
		},
	}
}
