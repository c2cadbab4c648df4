package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/choixe/choixe"
	"github.com/ardnew/choixe/cli/cmd/repl"
	"github.com/ardnew/choixe/loader"
	"github.com/ardnew/choixe/log"
	"github.com/ardnew/choixe/symbols"
)

// Repl starts an interactive evaluator against an optional initial
// document, with a live context that directives are evaluated against.
type Repl struct {
	Source string `arg:"" help:"Initial document to seed the context, or '-' for stdin" name:"source" optional:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var initial *choixe.Map

	if r.Source != "" {
		data, err := readSource(ctx, r.Source)
		if err != nil {
			return err
		}

		tree, err := loader.Decode(data)
		if err != nil {
			return err
		}

		m, ok := tree.(*choixe.Map)
		if !ok {
			return ErrYAMLMarshal.With(slog.String("arg", "source"))
		}

		initial = m
	}

	return repl.Run(
		ctx,
		initial,
		symbols.NewRegistry(),
		loader.New(),
		cacheDirFrom(ctx),
		log.Get(),
	)
}

// cacheDirFrom retrieves the runtime cache directory from the kong model's
// variable table, falling back to the current directory (".") if unavailable
// (e.g. when the repl command is invoked outside the normal CLI parse path,
// such as from a test).
func cacheDirFrom(ctx context.Context) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return "."
	}

	dir, ok := ktx.Model.Vars()[CacheIdentifier]
	if !ok {
		return "."
	}

	return dir
}
