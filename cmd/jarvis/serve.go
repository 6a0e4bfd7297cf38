package main

import (
	"github.com/spf13/cobra"

	"github.com/jeanpaul/jarvis/internal/server"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the keep-alive HTTP server",
		Long: `serve exposes the assistant over HTTP: POST /ask for questions,
GET /report for the knowledge summary, GET /healthz and GET /metrics for
monitoring. The root path answers "I'm alive" for uptime pingers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.close()

			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			srv := server.New(a.brain, a.store, a.mem, a.log)
			return srv.ListenAndServe(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
