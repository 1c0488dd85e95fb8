package main

import (
	"github.com/spf13/cobra"

	"github.com/eringen/folio"
)

func newBuildCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the site to static files",
		Long: `build reads every post, renders it and writes the complete site, feeds and
sitemap into the output directory. The directory is replaced on success.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			views, err := defaultViews(c.config)
			if err != nil {
				return err
			}
			b, err := folio.NewBuilder(c.config, views, c.logger)
			if err != nil {
				return err
			}
			report, err := b.Build(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("Built %d posts into %s\n", report.Posts, c.config.OutputDir)
			return nil
		},
	}
	cmd.Flags().StringP("out", "o", "", "output directory (default \"out\")")
	cmd.Flags().Bool("drafts", false, "include draft posts")
	cmd.Flags().Int("workers", 0, "concurrent renders (default number of CPUs)")
	return cmd
}
