package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/choixe/choixe"
	"github.com/ardnew/choixe/loader"
)

// Inspect compiles a document and reports every variable, import, call,
// model, and loop it references, along with its sweep count, without
// evaluating any of it.
type Inspect struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the inspect command.
func (i *Inspect) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	data, err := readSource(ctx, i.Source)
	if err != nil {
		return err
	}

	tree, err := loader.Decode(data)
	if err != nil {
		return err
	}

	node, err := choixe.Compile(tree, sourceDir(i.Source))
	if err != nil {
		return err
	}

	insp := choixe.Inspect(node)

	fmt.Printf("processed: %t\n", insp.Processed)
	fmt.Printf("sweeps: %d\n", insp.Sweeps)

	fmt.Println("variables:")

	for _, v := range insp.Variables {
		origin := "context"
		if v.Env {
			origin = "env"
		}

		fmt.Printf("  %s (%s, default=%t)\n", v.ID, origin, v.HasDefault)
	}

	fmt.Println("imports:")

	for _, imp := range insp.Imports {
		fmt.Printf("  %s\n", imp)
	}

	fmt.Println("calls:")

	for _, c := range insp.Calls {
		fmt.Printf("  %s\n", c)
	}

	fmt.Println("models:")

	for _, m := range insp.Models {
		fmt.Printf("  %s\n", m)
	}

	fmt.Println("loops:")

	for _, l := range insp.Loops {
		fmt.Printf("  %s\n", l)
	}

	return nil
}
