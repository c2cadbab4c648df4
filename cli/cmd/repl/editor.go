package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/choixe/choixe"
	"github.com/ardnew/choixe/loader"
	"github.com/ardnew/choixe/log"
)

const defaultEditor = "vi"

// editContextCommand implements [tea.ExecCommand] for the context
// edit-parse-retry loop. It formats the current context to a temp YAML
// file, opens the user's editor, and re-decodes the result. On a decode
// error the user is prompted to re-edit; declining exits the program.
type editContextCommand struct {
	ctx     *choixe.Map
	ctxFunc func() context.Context
	newCtx  *choixe.Map
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editContextCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editContextCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editContextCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-parse-retry loop. It formats the context, opens the
// editor, decodes the result, and prompts on error. If the user declines to
// re-edit, it returns [ErrEditDeclined].
func (c *editContextCommand) Run() error {
	ctx := c.ctxFunc()

	data, err := choixe.ToYAML(c.ctx, choixe.FormatOptions{})
	if err != nil {
		return fmt.Errorf("format context: %w", err)
	}

	content := string(data)

	f, err := os.CreateTemp(os.TempDir(), "choixe-repl-*.yaml")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Chmod(0o600); err != nil {
		f.Close()

		return err
	}

	f.Close()

	for {
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		r, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath)
		if err != nil {
			return err
		}

		br := bufio.NewReader(r)
		if _, err := br.Peek(1); err != nil {
			return nil
		}

		data, err := io.ReadAll(br)
		if err != nil {
			return err
		}

		tree, decodeErr := loader.Decode(data)

		c.logger.TraceContext(
			ctx,
			"editor decode attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", decodeErr == nil),
		)

		if decodeErr == nil {
			m, ok := tree.(*choixe.Map)
			if !ok {
				fmt.Fprintf(c.stderr, "\ncontext must decode to a mapping\n")
			} else {
				c.newCtx = m

				return nil
			}
		} else {
			fmt.Fprintf(c.stderr, "\ndecode error: %s\n", decodeErr)
		}

		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}

		data, readErr := os.ReadFile(tmpPath)
		if readErr != nil {
			return readErr
		}

		content = string(data)
	}
}

// runEditor launches the user's editor on the given file path and returns a
// reader over the edited file content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) (io.Reader, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	return f, nil
}
