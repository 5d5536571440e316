package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/podhmo/exprbox"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type Eval struct {
	app *App

	Expr     string
	VarsFile string
	Output   string
}

func NewEval(app *App) *cobra.Command {
	e := &Eval{app: app}
	cmd := &cobra.Command{
		Use:   "eval [flags] [FILE...]",
		Short: "Evaluate snippets and print their results",
		RunE:  e.Run,
	}
	cmd.Flags().StringVarP(&e.Expr, "expr", "e", "", "snippet to evaluate instead of files")
	cmd.Flags().StringVar(&e.VarsFile, "vars", "", "YAML file with global bindings")
	cmd.Flags().StringVarP(&e.Output, "output", "o", "json", "output format: json or text")
	return cmd
}

func (e *Eval) Run(cmd *cobra.Command, args []string) error {
	if (e.Expr == "") == (len(args) == 0) {
		return errors.New("specify either --expr or at least one FILE")
	}
	if e.Output != "json" && e.Output != "text" {
		return fmt.Errorf("unknown output format %q", e.Output)
	}

	globals := map[string]any{}
	if e.VarsFile != "" {
		data, err := e.app.readFile(e.VarsFile)
		if err != nil {
			return err
		}
		if err := yaml.Unmarshal([]byte(data), &globals); err != nil {
			return fmt.Errorf("decode %s: %w", e.VarsFile, err)
		}
	}

	interp := e.app.interpreter()
	if e.Expr != "" {
		res, err := interp.Evaluate(cmd.Context(), e.Expr, globals)
		if err != nil {
			return err
		}
		return e.print(res)
	}

	reqs := make([]exprbox.Request, len(args))
	for i, name := range args {
		body, err := e.app.readFile(name)
		if err != nil {
			return err
		}
		reqs[i] = exprbox.Request{Body: body, Globals: globals}
	}
	results, err := interp.EvalBatch(cmd.Context(), reqs)
	if err != nil {
		return err
	}

	var failed int
	for i, r := range results {
		if len(args) > 1 {
			fmt.Fprintf(e.app.stdout, "%s: ", args[i])
		}
		if r.Err != nil {
			failed++
			fmt.Fprintf(e.app.stdout, "error: %v\n", r.Err)
			continue
		}
		if err := e.print(r.Result); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d snippets failed", failed, len(args))
	}
	return nil
}

func (e *Eval) print(res *exprbox.Result) error {
	if e.Output == "text" {
		fmt.Fprintln(e.app.stdout, res.String())
		return nil
	}
	data, err := json.Marshal(res.Interface())
	if err != nil {
		return fmt.Errorf("encode %s as JSON: %w", res.String(), err)
	}
	fmt.Fprintln(e.app.stdout, string(data))
	return nil
}
