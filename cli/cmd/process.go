package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ardnew/choixe/choixe"
	"github.com/ardnew/choixe/loader"
	"github.com/ardnew/choixe/symbols"
)

// Process compiles a document and evaluates every directive it contains,
// printing one result per sweep alternative (or just the first, with
// --first) in the chosen output format.
type Process struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`

	Format string `default:"yaml" enum:"json,yaml" help:"Output format (json, yaml)." short:"o"`
	Indent int    `default:"2"                      help:"Indent width for JSON output." short:"i"`
	First  bool   `                                  help:"Print only the first alternative, even if the document sweeps." short:"1"`
}

// Run executes the process command.
func (p *Process) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	data, err := readSource(ctx, p.Source)
	if err != nil {
		return err
	}

	baseDir := sourceDir(p.Source)

	tree, err := loader.Decode(data)
	if err != nil {
		return err
	}

	node, err := choixe.Compile(tree, baseDir)
	if err != nil {
		return err
	}

	opts := choixe.Options{
		Context:  choixe.NewMap(),
		Resolver: symbols.NewRegistry(),
		Loader:   loader.New(),
		BaseDir:  baseDir,
	}

	var alts []choixe.Tree

	if p.First {
		one, err := choixe.ProcessOne(node, opts)
		if err != nil {
			return err
		}

		alts = []choixe.Tree{one}
	} else {
		alts, err = choixe.Process(node, opts)
		if err != nil {
			return err
		}
	}

	slog.DebugContext(
		ctx,
		"processed document",
		slog.String("source", p.Source),
		slog.Int("alternatives", len(alts)),
	)

	for _, alt := range alts {
		if err := p.print(alt); err != nil {
			return err
		}
	}

	return nil
}

func (p *Process) print(tree choixe.Tree) error {
	switch p.Format {
	case "json":
		indent := ""
		for range p.Indent {
			indent += " "
		}

		data, err := choixe.ToJSON(tree, choixe.FormatOptions{Indent: indent})
		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		fmt.Println(string(data))

	default:
		data, err := choixe.ToYAML(tree, choixe.FormatOptions{})
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		fmt.Print(string(data))
	}

	return nil
}

// readSource reads the full contents of path, or stdin when path is "-".
// When path is "-" and source files were also supplied through the
// top-level --source flag, those take precedence over the bare stdin
// descriptor, reusing the same dedup/symlink-aware machinery WithSourceFiles
// stored in ctx. A named path is read through that same machinery for a
// single file, so behavior (symlink resolution, "-" handling) matches.
func readSource(ctx context.Context, path string) ([]byte, error) {
	if path == stdinSource {
		if sf := sourceFilesFrom(ctx); sf != nil && !sf.IsZero() {
			return io.ReadAll(sf)
		}

		return io.ReadAll(os.Stdin)
	}

	srcs := buildSourceFiles([]string{path})
	if srcs == nil {
		return nil, fmt.Errorf("open source %q: %w", path, os.ErrNotExist)
	}

	return io.ReadAll(srcs)
}

// sourceDir returns the directory containing path, used to resolve
// relative $import paths. Stdin has no base directory.
func sourceDir(path string) string {
	if path == stdinSource {
		return ""
	}

	return filepath.Dir(path)
}
