package mealwise

import (
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/saadjs/mealwise/internal/api"
	"github.com/saadjs/mealwise/internal/app"
)

var (
	serveAddr    string
	serveOrigins []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve plans and analytics over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := app.ResolveAddr(serveAddr)
		return withDB(func(sqldb *sql.DB) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			srv := api.New(sqldb, api.Options{Logger: logger, AllowedOrigins: cleanOrigins(serveOrigins)})
			fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s (Ctrl+C to stop)\n", addr)
			return srv.ListenAndServe(ctx, addr)
		})
	},
}

func cleanOrigins(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, o := range raw {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default $MEALWISE_ADDR or "+app.DefaultAddr+")")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "origin", nil, "Allowed CORS origin (repeatable, default *)")
}
