package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/folio/scaffold"
)

func newNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "new <name>",
		Short:   "Create a new folio site",
		Example: "  folio new my-portfolio",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := scaffold.NewData(args[0], time.Now().Format("2006-01-02"))
			cmd.Printf("Creating new folio site: %s\n\n", data.ProjectName)
			created, err := scaffold.Create(args[0], data)
			if err != nil {
				return err
			}
			for _, p := range created {
				cmd.Printf("  created %s\n", p)
			}
			cmd.Println()
			cmd.Println("Done! Next steps:")
			cmd.Println()
			cmd.Printf("  cd %s\n", args[0])
			cmd.Println("  cp .env.example .env")
			cmd.Println("  folio serve --watch")
			cmd.Println()
			cmd.Println("Run 'folio build' to write the static site to out/.")
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the folio version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("folio %s\n", version)
		},
	}
}
