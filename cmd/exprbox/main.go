// Command exprbox evaluates and checks snippets from the command line.
//
//	exprbox eval -e 'return [1, 2, 3].includes(x);' --vars vars.yaml
//	exprbox eval rules/*.js
//	exprbox check rules/
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/podhmo/exprbox"
	"github.com/podhmo/exprbox/fs"
	"github.com/spf13/cobra"
)

func main() {
	if err := NewApp(fs.NewOSFS(), os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// App holds the flags shared by every subcommand.
type App struct {
	fsys   fs.FS
	stdout io.Writer
	stderr io.Writer

	Debug    bool
	Entry    string
	MaxDepth int
}

// NewApp builds the root command.
func NewApp(fsys fs.FS, stdout, stderr io.Writer) *cobra.Command {
	a := &App{fsys: fsys, stdout: stdout, stderr: stderr}
	cmd := &cobra.Command{
		Use:   "exprbox",
		Short: "Evaluate restricted expression snippets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Usage()
		},
	}
	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SilenceUsage = true
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.PersistentFlags()
	flags.BoolVar(&a.Debug, "debug", false, "enable debug logging")
	flags.StringVar(&a.Entry, "entry", "", "name of the function snippets are wrapped in")
	flags.IntVar(&a.MaxDepth, "max-depth", 0, "maximum evaluation depth (0 for the default)")

	cmd.AddCommand(NewEval(a), NewCheck(a))
	return cmd
}

func (a *App) interpreter() *exprbox.Interpreter {
	level := slog.LevelWarn
	if a.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	return exprbox.New(
		exprbox.WithLogger(logger),
		exprbox.WithEntryPoint(a.Entry),
		exprbox.WithMaxDepth(a.MaxDepth),
	)
}

func (a *App) readFile(name string) (string, error) {
	data, err := a.fsys.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(data), nil
}
