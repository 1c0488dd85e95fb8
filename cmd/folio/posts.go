package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eringen/folio"
	"github.com/eringen/folio/content"
)

func newListCmd(c *cli) *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the posts in the content directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := folio.NewRepository(c.config, c.logger)
			if err != nil {
				return err
			}
			var posts []content.Post
			if lang != "" {
				posts, err = repo.ListByLang(cmd.Context(), lang)
			} else {
				posts, err = repo.ListPosts(cmd.Context())
			}
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, p := range posts {
				draft := ""
				if p.Draft {
					draft = "draft"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.Published.Format("2006-01-02"), p.Lang, p.Slug, p.Title, draft)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "", "only list posts in this language")
	cmd.Flags().Bool("drafts", false, "include draft posts")
	return cmd
}

func newShowCmd(c *cli) *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "show <slug>",
		Short: "Print the rendered HTML of a post",
		Long: `show renders one post. Without --lang the translation in the default locale
wins, then the configured locale order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := folio.NewRepository(c.config, c.logger)
			if err != nil {
				return err
			}
			var p content.Post
			if lang != "" {
				p, err = repo.GetPost(cmd.Context(), lang, args[0])
			} else {
				p, err = repo.GetPostBySlug(cmd.Context(), args[0])
			}
			if errors.Is(err, content.ErrNotFound) {
				return fmt.Errorf("no post %q", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "<!-- %s/%s: %s -->\n%s\n", p.Lang, p.Slug, p.Title, p.HTML)
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "", "language of the post")
	cmd.Flags().Bool("drafts", false, "include draft posts")
	return cmd
}
