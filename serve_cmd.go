package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"mypyreveal/internal/reveal"
	"mypyreveal/internal/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the reveal action over HTTP for editor integrations",
	Long: `Start an HTTP server exposing POST /api/reveal, GET /api/help and a small
web page for trying the action out.

Requests on the same buffer run one at a time; identical overlapping
requests share a single checker run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := globals.logger()
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		r := reveal.New(reveal.NewExecutor(logger), logger)
		return web.NewServer(r, globals.configOptions(), logger).ListenAndServe(ctx, serveAddr)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "localhost:8080", "listen address")
}
