// Package symbols provides the default [choixe.SymbolResolver]: a
// registration table of named Go functions invocable from $call and
// $model directives, seeded with the same filesystem, path, and
// PATH-like string builtins the teacher exposes to its own expression
// environment.
package symbols

import (
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/ardnew/mung"

	"github.com/ardnew/choixe/choixe"
)

func fieldArg(name string) slog.Attr { return slog.String("arg", name) }

// Func adapts a plain Go function into a [choixe.Symbol]. fn receives the
// directive's evaluated keyword arguments and returns the call's result.
type Func func(args *choixe.Map) (any, error)

// Call implements [choixe.Symbol].
func (f Func) Call(args *choixe.Map) (any, error) { return f(args) }

// Model wraps a [Func] so it also satisfies [choixe.Model], making it
// callable from $model as well as $call.
type Model struct{ Func }

// IsModel implements [choixe.Model].
func (Model) IsModel() bool { return true }

// Registry is a [choixe.SymbolResolver] backed by a name-to-[choixe.Symbol]
// table. The zero value is empty; use [NewRegistry] for one seeded with
// the built-in namespace.
type Registry struct {
	mu      sync.RWMutex
	symbols map[string]choixe.Symbol
}

// NewRegistry returns a Registry preloaded with the file.*, path.*, mung.*,
// and env.* namespaces.
func NewRegistry() *Registry {
	r := &Registry{symbols: make(map[string]choixe.Symbol)}
	r.registerBuiltins()

	return r
}

// Register adds or replaces the symbol addressable as name.
func (r *Registry) Register(name string, sym choixe.Symbol) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.symbols[name] = sym
}

// Resolve implements [choixe.SymbolResolver].
func (r *Registry) Resolve(name string) (choixe.Symbol, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sym, ok := r.symbols[name]
	if !ok {
		return nil, choixe.ErrSymbolResolutionFailed
	}

	return sym, nil
}

func (r *Registry) registerBuiltins() {
	r.Register("file.exists", Func(func(args *choixe.Map) (any, error) {
		path, err := stringArg(args, "path")
		if err != nil {
			return nil, err
		}

		_, err = os.Stat(path)

		return err == nil, nil
	}))

	r.Register("file.isDir", Func(func(args *choixe.Map) (any, error) {
		path, err := stringArg(args, "path")
		if err != nil {
			return nil, err
		}

		info, err := os.Stat(path)
		if err != nil {
			return false, nil
		}

		return info.IsDir(), nil
	}))

	r.Register("path.abs", Func(func(args *choixe.Map) (any, error) {
		path, err := stringArg(args, "path")
		if err != nil {
			return nil, err
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, choixe.ErrCallFailed.Wrap(err)
		}

		return abs, nil
	}))

	r.Register("path.join", Func(func(args *choixe.Map) (any, error) {
		parts, err := stringSliceArg(args, "parts")
		if err != nil {
			return nil, err
		}

		return filepath.Join(parts...), nil
	}))

	r.Register("path.rel", Func(func(args *choixe.Map) (any, error) {
		base, err := stringArg(args, "base")
		if err != nil {
			return nil, err
		}

		target, err := stringArg(args, "target")
		if err != nil {
			return nil, err
		}

		rel, err := filepath.Rel(base, target)
		if err != nil {
			return nil, choixe.ErrCallFailed.Wrap(err)
		}

		return rel, nil
	}))

	r.Register("mung.prefix", Func(func(args *choixe.Map) (any, error) {
		key, err := stringArg(args, "key")
		if err != nil {
			return nil, err
		}

		items, err := stringSliceArg(args, "items")
		if err != nil {
			return nil, err
		}

		return mung.Make(
			mung.WithSubjectItems(key),
			mung.WithDelim(string(os.PathListSeparator)),
			mung.WithPrefixItems(items...),
		), nil
	}))

	r.Register("env.hostname", Func(func(*choixe.Map) (any, error) {
		host, err := os.Hostname()
		if err != nil {
			return nil, choixe.ErrCallFailed.Wrap(err)
		}

		return host, nil
	}))

	r.Register("env.user", Func(func(*choixe.Map) (any, error) {
		u, err := user.Current()
		if err != nil {
			return nil, choixe.ErrCallFailed.Wrap(err)
		}

		return u.Username, nil
	}))

	r.Register("env.platform", Func(func(*choixe.Map) (any, error) {
		return runtime.GOOS + "/" + runtime.GOARCH, nil
	}))
}

func stringArg(args *choixe.Map, name string) (string, error) {
	v, ok := args.Get(name)
	if !ok {
		return "", choixe.ErrBadArgumentSchema.With(fieldArg(name))
	}

	s, ok := v.(string)
	if !ok {
		return "", choixe.ErrTypeMismatch.With(fieldArg(name))
	}

	return s, nil
}

func stringSliceArg(args *choixe.Map, name string) ([]string, error) {
	v, ok := args.Get(name)
	if !ok {
		return nil, choixe.ErrBadArgumentSchema.With(fieldArg(name))
	}

	raw, ok := v.([]any)
	if !ok {
		return nil, choixe.ErrTypeMismatch.With(fieldArg(name))
	}

	out := make([]string, len(raw))

	for i, e := range raw {
		s, ok := e.(string)
		if !ok {
			return nil, choixe.ErrTypeMismatch.With(fieldArg(name))
		}

		out[i] = s
	}

	return out, nil
}
