package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eringen/folio"
)

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site from a SQLite index of the content",
		Long: `serve indexes the content directory into SQLite and serves the site with
per-visitor language selection. With --watch the index follows edits to
the content and static directories.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			views, err := defaultViews(c.config)
			if err != nil {
				return err
			}
			app, err := folio.New(c.config, views, folio.WithLogger(c.logger))
			if err != nil {
				return err
			}
			defer app.Close()
			app.Echo.HideBanner = true

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			c.logger.Infof("serving %s on %s", c.config.URL, c.config.Addr)
			return app.Start(ctx)
		},
	}
	cmd.Flags().String("addr", "", "listen address (default \":3000\")")
	cmd.Flags().Bool("watch", false, "reindex when content changes")
	cmd.Flags().Bool("drafts", false, "include draft posts")
	return cmd
}
