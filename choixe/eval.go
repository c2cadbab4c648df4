package choixe

import (
	"os"
	"path/filepath"
	"strings"
)

// DocumentLoader loads a raw [Tree] from an external location. The path
// passed to Load is the $import path, joined with the importing
// document's base directory when relative, and cleaned. Implementations
// decide how it is read and decoded; the default implementation lives in
// the loader package.
type DocumentLoader interface {
	Load(path string) (Tree, error)
}

// Symbol is a dynamic value resolved via [SymbolResolver], invoked by a
// $call or $model directive with its evaluated keyword arguments.
type Symbol interface {
	Call(args *Map) (any, error)
}

// Model is a [Symbol] additionally usable from a $model directive. A
// resolver may return a plain Symbol for names only valid under $call;
// ModelNode evaluation fails with [ErrNotAModel] if the resolved value
// does not also satisfy Model.
type Model interface {
	Symbol
	IsModel() bool
}

// SymbolResolver resolves the dotted name used by a $call or $model
// directive to an invocable [Symbol]. The default implementation lives in
// the symbols package.
type SymbolResolver interface {
	Resolve(name string) (Symbol, error)
}

// Options configures a single [Process] invocation.
type Options struct {
	// Context is the evaluation context that $var resolves against.
	Context *Map

	// Resolver backs $call and $model. A nil Resolver makes any such
	// directive fail with [ErrSymbolResolutionFailed].
	Resolver SymbolResolver

	// Loader backs $import. A nil Loader makes any such directive fail
	// with [ErrImportNotFound].
	Loader DocumentLoader

	// BaseDir resolves relative $import paths at the root of the document.
	BaseDir string
}

type loopFrame struct {
	id    string
	item  any
	index any
}

// evalContext carries the mutable state threaded through a single
// top-level [Process] call: the root frames stack, the import stack used
// for cycle detection, and the current base directory used to resolve
// relative imports. It is not safe for concurrent use.
type evalContext struct {
	Options

	importStack []string
	frames      []loopFrame
}

// Process evaluates node against opts, returning every alternative
// produced by cartesian expansion of the sweeps and branching $for/$call
// results it contains. A document with no sweeps yields exactly one
// result.
func Process(node Node, opts Options) ([]Tree, error) {
	ctx := newEvalContext(opts)

	return ctx.alternatives(node, true)
}

// ProcessOne evaluates node against opts without branching: every sweep
// collapses to its first option. It is a convenience for callers that
// know (or don't care) that node contains no $sweep.
func ProcessOne(node Node, opts Options) (Tree, error) {
	ctx := newEvalContext(opts)

	alts, err := ctx.alternatives(node, false)
	if err != nil {
		return nil, err
	}

	if len(alts) == 0 {
		return nil, nil
	}

	return alts[0], nil
}

func newEvalContext(opts Options) *evalContext {
	if opts.Context == nil {
		opts.Context = NewMap()
	}

	return &evalContext{Options: opts}
}

// alternatives is the single recursive evaluation rule shared by every
// node kind. branching selects between the two evaluation modes named in
// the processing model: true walks every sweep option and reports the
// full cartesian expansion; false collapses every [SweepNode] to its
// first option. Every other node kind behaves identically under both
// modes; only SweepNode inspects branching directly.
func (ctx *evalContext) alternatives(node Node, branching bool) ([]any, error) {
	switch n := node.(type) {
	case LitNode:
		return []any{n.Value}, nil

	case BundleNode:
		return ctx.alternativesBundle(n, branching)

	case MapNode:
		return ctx.alternativesMap(n, branching)

	case SeqNode:
		return ctx.alternativesSeq(n, branching)

	case SweepNode:
		return ctx.alternativesSweep(n, branching)

	case VarNode:
		return ctx.alternativesVar(n, branching)

	case ImportNode:
		return ctx.alternativesImport(n, branching)

	case CallNode:
		return ctx.alternativesCall(n, branching, false)

	case ModelNode:
		return ctx.alternativesCall(n, branching, true)

	case ForNode:
		return ctx.alternativesFor(n, branching)

	case ItemNode:
		v, err := ctx.resolveRef(n.Ref, true)
		if err != nil {
			return nil, err
		}

		return []any{v}, nil

	case IndexNode:
		v, err := ctx.resolveRef(n.Ref, false)
		if err != nil {
			return nil, err
		}

		return []any{v}, nil

	default:
		return nil, WrapError(ErrBadDirectiveForm).With(fieldSource("unknown node"))
	}
}

func (ctx *evalContext) alternativesBundle(n BundleNode, branching bool) ([]any, error) {
	lists := make([][]any, len(n.Parts))

	for i, part := range n.Parts {
		alts, err := ctx.alternatives(part, branching)
		if err != nil {
			return nil, err
		}

		lists[i] = alts
	}

	combos := cartesianProduct(lists)
	out := make([]any, len(combos))

	for i, combo := range combos {
		var sb strings.Builder

		for _, v := range combo {
			sb.WriteString(toText(v))
		}

		out[i] = sb.String()
	}

	return out, nil
}

func (ctx *evalContext) alternativesMap(n MapNode, branching bool) ([]any, error) {
	lists := make([][]any, 0, len(n.Entries)*2)

	for _, e := range n.Entries {
		keyAlts, err := ctx.alternatives(e.Key, branching)
		if err != nil {
			return nil, err
		}

		valAlts, err := ctx.alternatives(e.Value, branching)
		if err != nil {
			return nil, err
		}

		lists = append(lists, keyAlts, valAlts)
	}

	combos := cartesianProduct(lists)
	out := make([]any, 0, len(combos))

	for _, combo := range combos {
		m := NewMap()

		for i := 0; i < len(combo); i += 2 {
			key := toText(combo[i])

			if err := m.Append(key, combo[i+1]); err != nil {
				return nil, err
			}
		}

		out = append(out, m)
	}

	return out, nil
}

func (ctx *evalContext) alternativesSeq(n SeqNode, branching bool) ([]any, error) {
	lists := make([][]any, len(n.Items))

	for i, item := range n.Items {
		alts, err := ctx.alternatives(item, branching)
		if err != nil {
			return nil, err
		}

		lists[i] = alts
	}

	combos := cartesianProduct(lists)
	out := make([]any, len(combos))

	for i, combo := range combos {
		seq := make([]any, len(combo))
		copy(seq, combo)
		out[i] = seq
	}

	return out, nil
}

func (ctx *evalContext) alternativesSweep(n SweepNode, branching bool) ([]any, error) {
	if len(n.Options) == 0 {
		return nil, nil
	}

	if !branching {
		alts, err := ctx.alternatives(n.Options[0], false)
		if err != nil {
			return nil, err
		}

		if len(alts) == 0 {
			return nil, nil
		}

		return alts[:1], nil
	}

	var all []any

	for _, opt := range n.Options {
		alts, err := ctx.alternatives(opt, true)
		if err != nil {
			return nil, err
		}

		all = append(all, alts...)
	}

	return all, nil
}

// alternativesVar implements $var's fixed lookup order: context first,
// then (when env is set) the OS environment under the same dotted id
// verbatim, then the compile-time default, then failure.
func (ctx *evalContext) alternativesVar(n VarNode, branching bool) ([]any, error) {
	if val, ok := lookupPath(ctx.Context, n.ID); ok {
		return []any{val}, nil
	}

	if n.Env {
		if val, ok := os.LookupEnv(n.ID); ok {
			return []any{val}, nil
		}
	}

	if n.Default != nil {
		return ctx.alternatives(n.Default, branching)
	}

	if n.Env {
		return nil, ErrUnresolvedEnvVariable.With(fieldPath(n.ID))
	}

	return nil, ErrUnresolvedVariable.With(fieldPath(n.ID))
}

func (ctx *evalContext) alternativesImport(n ImportNode, branching bool) ([]any, error) {
	pathAlts, err := ctx.alternatives(n.Path, branching)
	if err != nil {
		return nil, err
	}

	out := make([]any, 0, len(pathAlts))

	for _, p := range pathAlts {
		text, ok := p.(string)
		if !ok {
			return nil, ErrTypeMismatch.With(fieldPath(toText(p)))
		}

		alts, err := ctx.importOne(text, branching)
		if err != nil {
			return nil, err
		}

		out = append(out, alts...)
	}

	return out, nil
}

func (ctx *evalContext) importOne(rawPath string, branching bool) ([]any, error) {
	if ctx.Loader == nil {
		return nil, ErrImportNotFound.With(fieldPath(rawPath))
	}

	resolved := rawPath
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(ctx.BaseDir, resolved)
	}

	resolved = filepath.Clean(resolved)

	for _, seen := range ctx.importStack {
		if seen == resolved {
			return nil, ErrImportCycle.With(fieldPath(resolved))
		}
	}

	tree, err := ctx.Loader.Load(resolved)
	if err != nil {
		return nil, ErrImportNotFound.Wrap(err).With(fieldPath(resolved))
	}

	childDir := filepath.Dir(resolved)

	node, err := Compile(tree, childDir)
	if err != nil {
		return nil, err
	}

	savedDir := ctx.BaseDir
	ctx.BaseDir = childDir
	ctx.importStack = append(ctx.importStack, resolved)

	alts, err := ctx.alternatives(node, branching)

	ctx.importStack = ctx.importStack[:len(ctx.importStack)-1]
	ctx.BaseDir = savedDir

	return alts, err
}

func (ctx *evalContext) alternativesCall(n any, branching, wantModel bool) ([]any, error) {
	var (
		symNode Node
		argsPtr *MapNode
		symbol  string
	)

	switch v := n.(type) {
	case CallNode:
		symNode, argsPtr = v.Symbol, v.Args
	case ModelNode:
		symNode, argsPtr = v.Symbol, v.Args
	}

	symAlts, err := ctx.alternatives(symNode, branching)
	if err != nil {
		return nil, err
	}

	var argsNode Node = MapNode{}
	if argsPtr != nil {
		argsNode = *argsPtr
	}

	argAlts, err := ctx.alternatives(argsNode, branching)
	if err != nil {
		return nil, err
	}

	combos := cartesianProduct([][]any{symAlts, argAlts})
	out := make([]any, 0, len(combos))

	for _, combo := range combos {
		symbol = toText(combo[0])

		argsMap, _ := combo[1].(*Map)
		if argsMap == nil {
			argsMap = NewMap()
		}

		if ctx.Resolver == nil {
			return nil, ErrSymbolResolutionFailed.With(fieldSymbol(symbol))
		}

		sym, err := ctx.Resolver.Resolve(symbol)
		if err != nil {
			return nil, ErrSymbolResolutionFailed.Wrap(err).With(fieldSymbol(symbol))
		}

		if wantModel {
			model, ok := sym.(Model)
			if !ok || !model.IsModel() {
				return nil, ErrNotAModel.With(fieldSymbol(symbol))
			}
		}

		result, err := sym.Call(argsMap)
		if err != nil {
			return nil, ErrCallFailed.Wrap(err).With(fieldSymbol(symbol))
		}

		out = append(out, Opaque{Symbol: symbol, Value: result})
	}

	return out, nil
}

func (ctx *evalContext) alternativesFor(n ForNode, branching bool) ([]any, error) {
	iterVal, ok := lookupPath(ctx.Context, n.Iterable)
	if !ok {
		return nil, ErrUnresolvedVariable.With(fieldPath(n.Iterable))
	}

	type pos struct {
		item  any
		index any
	}

	var items []pos

	switch v := iterVal.(type) {
	case nil:
		// empty iterable: zero positions, handled below.
	case []any:
		for i, e := range v {
			items = append(items, pos{item: e, index: int64(i)})
		}

	default:
		return nil, ErrTypeMismatch.With(fieldPath(n.Iterable))
	}

	if len(items) == 0 {
		return []any{identityFor(n.Mode)}, nil
	}

	lists := make([][]any, len(items))

	for i, it := range items {
		ctx.frames = append(ctx.frames, loopFrame{id: n.LoopID, item: it.item, index: it.index})

		alts, err := ctx.alternatives(n.Body, branching)

		ctx.frames = ctx.frames[:len(ctx.frames)-1]

		if err != nil {
			return nil, err
		}

		lists[i] = alts
	}

	combos := cartesianProduct(lists)
	out := make([]any, len(combos))

	for i, combo := range combos {
		out[i] = mergeFor(n.Mode, combo)
	}

	return out, nil
}

func identityFor(mode LoopMode) any {
	switch mode {
	case LoopMap:
		return NewMap()
	case LoopSeq:
		return []any{}
	default:
		return ""
	}
}

func mergeFor(mode LoopMode, combo []any) any {
	switch mode {
	case LoopMap:
		out := NewMap()

		for _, v := range combo {
			if m, ok := v.(*Map); ok {
				m.Range(func(k string, val any) bool {
					out.Put(k, val)

					return true
				})
			}
		}

		return out

	case LoopSeq:
		out := make([]any, len(combo))
		copy(out, combo)

		return out

	default:
		var sb strings.Builder
		for _, v := range combo {
			sb.WriteString(toText(v))
		}

		return sb.String()
	}
}

// resolveRef looks up a loop frame by ref, defaulting to the innermost
// frame when ref is empty. wantItem selects between a frame's item and
// its index; for item lookups, any text following the frame id's first
// path segment is resolved against the item itself.
func (ctx *evalContext) resolveRef(ref string, wantItem bool) (any, error) {
	if len(ctx.frames) == 0 {
		return nil, ErrUnknownLoopRef.With(fieldLoopRef(ref))
	}

	if ref == "" {
		f := ctx.frames[len(ctx.frames)-1]
		if wantItem {
			return f.item, nil
		}

		return f.index, nil
	}

	head, rest, hasRest := strings.Cut(ref, ".")

	if f, ok := ctx.findFrame(head); ok {
		if !wantItem || !hasRest {
			if wantItem {
				return f.item, nil
			}

			return f.index, nil
		}

		val, ok := lookupPath(f.item, rest)
		if !ok {
			return nil, ErrUnresolvedVariable.With(fieldPath(ref))
		}

		return val, nil
	}

	return nil, ErrUnknownLoopRef.With(fieldLoopRef(ref))
}

func (ctx *evalContext) findFrame(id string) (loopFrame, bool) {
	for i := len(ctx.frames) - 1; i >= 0; i-- {
		if ctx.frames[i].id == id {
			return ctx.frames[i], true
		}
	}

	return loopFrame{}, false
}

// cartesianProduct combines per-child alternative lists into every
// possible combination, with the last list varying fastest: the shared
// rule behind MapNode, SeqNode, BundleNode, CallNode/ModelNode argument
// expansion, and ForNode iteration combination.
func cartesianProduct(lists [][]any) [][]any {
	if len(lists) == 0 {
		return [][]any{{}}
	}

	rest := cartesianProduct(lists[1:])

	out := make([][]any, 0, len(lists[0])*len(rest))

	for _, v := range lists[0] {
		for _, r := range rest {
			combo := make([]any, 0, len(r)+1)
			combo = append(combo, v)
			combo = append(combo, r...)
			out = append(out, combo)
		}
	}

	return out
}
