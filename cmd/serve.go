/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/officekit/internal/logger"
	"github.com/josephgoksu/officekit/internal/server"
	"github.com/josephgoksu/officekit/internal/ui"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the copilot over HTTP for an add-in task pane",
	Long: `Start the officekit HTTP API. The add-in task pane calls it to run
breakdowns and code generation, and to browse samples and past turns.

Routes:
  POST /api/breakdown        {"prompt": "..."}
  POST /api/generate         {"prompt": "..."}
  GET  /api/samples[?host=]  GET /api/samples/{id}
  POST /api/samples/search   {"text": "...", "host": "Excel"}
  GET  /api/turns            GET /api/turns/{id}
  GET  /health

Cross-origin requests are accepted only from server.allowedOrigins.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		deps, err := newCopilot(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer deps.Close()

		opts := server.Options{
			Copilot:        deps.orchestrator,
			Samples:        deps.samples,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			// Two model calls per turn, each bounded by the LLM timeout.
			RequestTimeout: 2 * time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
			Version:        version,
			Logger:         logger.Named("server"),
		}
		if deps.history != nil {
			opts.History = deps.history
		}
		srv, err := server.New(opts)
		if err != nil {
			return err
		}

		if !isQuiet() {
			cmd.Println(ui.StyleSuccess.Render("✓ officekit API listening on http://" + addr))
			cmd.Println(ui.StyleSubtle.Render("  ctrl+c to stop"))
		}
		return srv.ListenAndServe(cmd.Context(), addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from server.addr)")
}
