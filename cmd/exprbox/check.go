package main

import (
	"fmt"

	"github.com/podhmo/exprbox/fs"
	"github.com/spf13/cobra"
)

type Check struct {
	app *App

	Ext []string
}

func NewCheck(app *App) *cobra.Command {
	c := &Check{app: app}
	cmd := &cobra.Command{
		Use:   "check [flags] PATH...",
		Short: "Verify that snippets parse and have a supported shape",
		Long:  "Verify that snippets parse and have a supported shape. Directories are searched recursively for files with one of the --ext suffixes.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.Run,
	}
	cmd.Flags().StringSliceVar(&c.Ext, "ext", []string{".js"}, "snippet file suffixes searched for in directories")
	return cmd
}

func (c *Check) Run(cmd *cobra.Command, args []string) error {
	files, err := fs.SnippetFiles(c.app.fsys, args, c.Ext...)
	if err != nil {
		return err
	}
	interp := c.app.interpreter()

	var failed int
	for _, name := range files {
		body, err := c.app.readFile(name)
		if err != nil {
			return err
		}
		if err := interp.Check(body); err != nil {
			failed++
			fmt.Fprintf(c.app.stdout, "%s: %v\n", name, err)
			continue
		}
		fmt.Fprintf(c.app.stdout, "%s: ok\n", name)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d snippets failed", failed, len(files))
	}
	return nil
}
