package choixe

import (
	"regexp"
)

// forKeyPattern matches a special-form $for(...) map key.
var forKeyPattern = regexp.MustCompile(
	`^\$for\(\s*([A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)*)\s*(?:,\s*([A-Za-z_][A-Za-z0-9_]*)\s*)?\)$`,
)

// compiler carries state across a single Compile invocation: the base
// directory used to resolve relative imports, and a counter used to mint
// stable auto-generated loop ids.
type compiler struct {
	baseDir  string
	forCount int
}

// Compile walks tree (as produced by a [DocumentLoader] or built
// programmatically) and produces an immutable [Node]. baseDir is used to
// resolve relative $import paths encountered anywhere beneath tree; pass
// "" to resolve relative to the process's current working directory.
func Compile(tree Tree, baseDir string) (Node, error) {
	c := &compiler{baseDir: baseDir}

	return c.compile(tree)
}

func (c *compiler) compile(tree Tree) (Node, error) {
	switch v := tree.(type) {
	case string:
		return c.compileString(v)

	case *Map:
		return c.compileMap(v)

	case []any:
		items := make([]Node, len(v))

		for i, item := range v {
			n, err := c.compile(item)
			if err != nil {
				return nil, err
			}

			items[i] = n
		}

		return SeqNode{Items: items}, nil

	default:
		// nil, bool, int64, float64 and any other scalar pass through as-is.
		return LitNode{Value: v}, nil
	}
}

// compileString lexes s and dispatches to either a literal, a single
// directive node, or a bundle of parts.
func (c *compiler) compileString(s string) (Node, error) {
	toks, err := Lex(s)
	if err != nil {
		return nil, err
	}

	if len(toks) == 1 {
		return c.compileToken(toks[0])
	}

	parts := make([]Node, len(toks))

	for i, t := range toks {
		n, err := c.compileToken(t)
		if err != nil {
			return nil, err
		}

		parts[i] = n
	}

	return BundleNode{Parts: parts}, nil
}

func (c *compiler) compileToken(t Token) (Node, error) {
	if t.Kind == TokPlain {
		return LitNode{Value: t.Text}, nil
	}

	call, err := parseArgs(t.Name, t.Arg)
	if err != nil {
		return nil, err
	}

	return c.dispatchDirective(call)
}

// dispatchDirective builds the AST node for a directive parsed from its
// compact or call-form textual representation (var, import, sweep, item,
// index). call and model and for never reach here: they only arise from
// the special map form.
func (c *compiler) dispatchDirective(call DirectiveCall) (Node, error) {
	if err := validateSchema(call); err != nil {
		return nil, err
	}

	switch call.Name {
	case "var":
		return c.buildVar(call)

	case "import":
		return c.buildImport(call)

	case "sweep":
		return c.buildSweep(call)

	case "item":
		return ItemNode{Ref: identArg(call.Args, 0)}, nil

	case "index":
		return IndexNode{Ref: identArg(call.Args, 0)}, nil

	default:
		return nil, ErrUnknownDirective.With(fieldKey(call.Name))
	}
}

func identArg(args []Argument, i int) string {
	if i >= len(args) {
		return ""
	}

	if args[i].Kind == ArgIdent {
		return args[i].Ident
	}

	return toText(args[i].Value)
}

func (c *compiler) buildVar(call DirectiveCall) (Node, error) {
	id := identArg(call.Args, 0)
	if !isDottedIdentifier(id) {
		return nil, ErrBadIdentifier.With(fieldKey(id))
	}

	n := VarNode{ID: id}

	if env, ok := call.Kwargs["env"]; ok {
		b, ok := env.Value.(bool)
		if env.Kind != ArgLiteral || !ok {
			return nil, ErrBadArgumentSchema.With(fieldKey("env"))
		}

		n.Env = b
	}

	if def, ok := call.Kwargs["default"]; ok {
		if def.Kind != ArgLiteral {
			return nil, ErrBadArgumentSchema.With(fieldKey("default"))
		}

		n.Default = LitNode{Value: def.Value}
	}

	return n, nil
}

func (c *compiler) buildImport(call DirectiveCall) (Node, error) {
	arg := call.Args[0]
	if arg.Kind != ArgLiteral {
		return nil, ErrBadArgumentSchema.With(fieldKey("path"))
	}

	path, ok := arg.Value.(string)
	if !ok {
		return nil, ErrTypeMismatch.With(fieldKey("path"))
	}

	return ImportNode{Path: LitNode{Value: path}}, nil
}

func (c *compiler) buildSweep(call DirectiveCall) (Node, error) {
	opts := make([]Node, len(call.Args))

	for i, a := range call.Args {
		if a.Kind == ArgIdent {
			opts[i] = VarNode{ID: a.Ident}

			continue
		}

		opts[i] = LitNode{Value: a.Value}
	}

	return SweepNode{Options: opts}, nil
}

// compileMap recognizes the extended form, the three special forms, and
// falls back to a regular map whose keys are independently compiled (a key
// may itself be a bundle or directive).
func (c *compiler) compileMap(m *Map) (Node, error) {
	if isExtendedForm(m) {
		return c.compileExtended(m)
	}

	specialKey, kind, err := findSpecialKey(m)
	if err != nil {
		return nil, err
	}

	switch kind {
	case specialCall:
		return c.compileCallForm(m, specialKey, false)
	case specialModel:
		return c.compileCallForm(m, specialKey, true)
	case specialFor:
		return c.compileForForm(m, specialKey)
	}

	entries := make([]MapEntry, 0, m.Len())

	var buildErr error

	m.Range(func(k string, v any) bool {
		keyNode, err := c.compileString(k)
		if err != nil {
			buildErr = err

			return false
		}

		valNode, err := c.compile(v)
		if err != nil {
			buildErr = err

			return false
		}

		entries = append(entries, MapEntry{Key: keyNode, Value: valNode})

		return true
	})
	if buildErr != nil {
		return nil, buildErr
	}

	return MapNode{Entries: entries}, nil
}

func isExtendedForm(m *Map) bool {
	if _, ok := m.Get("$directive"); !ok {
		return false
	}

	for _, k := range m.Keys() {
		switch k {
		case "$directive", "$args", "$kwargs":
		default:
			return false
		}
	}

	return true
}

// compileExtended builds a DirectiveCall whose args/kwargs are themselves
// AST-compiled from arbitrary sub-trees: the only place a directive
// argument may be more than a literal or identifier.
func (c *compiler) compileExtended(m *Map) (Node, error) {
	nameVal, _ := m.Get("$directive")

	name, ok := nameVal.(string)
	if !ok {
		return nil, ErrBadDirectiveForm.With(fieldKey("$directive"))
	}

	var argNodes []Node

	if rawArgs, ok := m.Get("$args"); ok {
		seq, ok := rawArgs.([]any)
		if !ok {
			return nil, ErrBadDirectiveForm.With(fieldKey("$args"))
		}

		for _, a := range seq {
			n, err := c.compile(a)
			if err != nil {
				return nil, err
			}

			argNodes = append(argNodes, n)
		}
	}

	kwNodes := map[string]Node{}

	if rawKwargs, ok := m.Get("$kwargs"); ok {
		km, ok := rawKwargs.(*Map)
		if !ok {
			return nil, ErrBadDirectiveForm.With(fieldKey("$kwargs"))
		}

		var buildErr error

		km.Range(func(k string, v any) bool {
			n, err := c.compile(v)
			if err != nil {
				buildErr = err

				return false
			}

			kwNodes[k] = n

			return true
		})
		if buildErr != nil {
			return nil, buildErr
		}
	}

	return c.dispatchExtendedDirective(name, argNodes, kwNodes)
}

// dispatchExtendedDirective builds AST nodes for directives reached via the
// extended form, where arguments are already-compiled sub-ASTs rather than
// literal/ident [Argument] values.
func (c *compiler) dispatchExtendedDirective(
	name string,
	args []Node,
	kwargs map[string]Node,
) (Node, error) {
	switch name {
	case "var":
		if len(args) != 1 {
			return nil, ErrBadArgumentSchema.With(fieldKey("var"))
		}

		id, ok := literalString(args[0])
		if !ok || !isDottedIdentifier(id) {
			return nil, ErrBadIdentifier.With(fieldKey(name))
		}

		n := VarNode{ID: id}
		if def, ok := kwargs["default"]; ok {
			n.Default = def
		}

		if envNode, ok := kwargs["env"]; ok {
			if b, ok := literalBool(envNode); ok {
				n.Env = b
			}
		}

		return n, nil

	case "import":
		if len(args) != 1 {
			return nil, ErrBadArgumentSchema.With(fieldKey("import"))
		}

		return ImportNode{Path: args[0]}, nil

	case "sweep":
		if len(args) < 1 {
			return nil, ErrBadArgumentSchema.With(fieldKey("sweep"))
		}

		return SweepNode{Options: args}, nil

	case "item":
		ref, _ := literalString(firstOrNil(args))

		return ItemNode{Ref: ref}, nil

	case "index":
		ref, _ := literalString(firstOrNil(args))

		return IndexNode{Ref: ref}, nil

	default:
		return nil, ErrUnknownDirective.With(fieldKey(name))
	}
}

func firstOrNil(nodes []Node) Node {
	if len(nodes) == 0 {
		return nil
	}

	return nodes[0]
}

func literalString(n Node) (string, bool) {
	if n == nil {
		return "", false
	}

	lit, ok := n.(LitNode)
	if !ok {
		return "", false
	}

	s, ok := lit.Value.(string)

	return s, ok
}

func literalBool(n Node) (bool, bool) {
	lit, ok := n.(LitNode)
	if !ok {
		return false, false
	}

	b, ok := lit.Value.(bool)

	return b, ok
}

//go:generate go tool stringer --type specialKind --output compile_string.go

type specialKind int

const (
	specialNone specialKind = iota
	specialCall
	specialModel
	specialFor
)

// findSpecialKey scans m's literal keys for exactly one of $call, $model,
// or a $for(...) pattern, failing with [ErrMixedSpecialKeys] if more than
// one is present. A $for(...) key must be the map's only key; a $call or
// $model key may share its map only with $args.
func findSpecialKey(m *Map) (string, specialKind, error) {
	var (
		foundKey  string
		foundKind specialKind
	)

	for _, k := range m.Keys() {
		kind := specialNone

		switch {
		case k == "$call":
			kind = specialCall
		case k == "$model":
			kind = specialModel
		case forKeyPattern.MatchString(k):
			kind = specialFor
		}

		if kind == specialNone {
			continue
		}

		if foundKind != specialNone {
			return "", specialNone, ErrMixedSpecialKeys.With(
				fieldKey(foundKey), fieldKey(k),
			)
		}

		foundKey, foundKind = k, kind
	}

	if foundKind == specialNone {
		return "", specialNone, nil
	}

	allowed := map[string]bool{foundKey: true}
	if foundKind == specialCall || foundKind == specialModel {
		allowed["$args"] = true
	}

	for _, k := range m.Keys() {
		if !allowed[k] {
			return "", specialNone, ErrBadDirectiveForm.With(fieldKey(k))
		}
	}

	return foundKey, foundKind, nil
}

func (c *compiler) compileCallForm(m *Map, key string, model bool) (Node, error) {
	symNode, err := c.compile(mustGet(m, key))
	if err != nil {
		return nil, err
	}

	var argsNode Node = MapNode{}

	if rawArgs, ok := m.Get("$args"); ok {
		argsMap, ok := rawArgs.(*Map)
		if !ok {
			return nil, ErrBadDirectiveForm.With(fieldKey("$args"))
		}

		n, err := c.compileMap(argsMap)
		if err != nil {
			return nil, err
		}

		argsNode = n
	}

	mapNode, ok := argsNode.(MapNode)
	if !ok {
		return nil, ErrBadDirectiveForm.With(fieldKey("$args"))
	}

	if model {
		return ModelNode{Symbol: symNode, Args: &mapNode}, nil
	}

	return CallNode{Symbol: symNode, Args: &mapNode}, nil
}

func (c *compiler) compileForForm(m *Map, key string) (Node, error) {
	groups := forKeyPattern.FindStringSubmatch(key)
	iterable, loopID := groups[1], groups[2]

	if loopID == "" {
		c.forCount++
		loopID = autoLoopID(c.forCount)
	}

	bodyTree := mustGet(m, key)

	body, err := c.compile(bodyTree)
	if err != nil {
		return nil, err
	}

	return ForNode{
		Iterable: iterable,
		LoopID:   loopID,
		Body:     body,
		Mode:     loopModeOf(bodyTree),
	}, nil
}

// loopModeOf infers how a ForNode combines its per-iteration results from
// the static shape of its body: a mapping body merges key-by-key across
// iterations (last iteration wins on key collision), and everything else
// -- scalars, bundles, directives, sequences -- collects one result per
// iteration into a list. LoopString, which concatenates results as text,
// is never inferred here, and the extended form has no for directive, so
// no compiled ForNode carries it.
func loopModeOf(bodyTree Tree) LoopMode {
	if _, ok := bodyTree.(*Map); ok {
		return LoopMap
	}

	return LoopSeq
}

func autoLoopID(n int) string {
	return "$for#" + itoa(n)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	var buf [20]byte

	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}

	return string(buf[i:])
}

func mustGet(m *Map, key string) any {
	v, _ := m.Get(key)

	return v
}
