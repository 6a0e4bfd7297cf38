package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeanpaul/jarvis/internal/config"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.WriteDefault()
			if err != nil {
				return err
			}
			fmt.Println("wrote", path)
			return nil
		},
	}
}
