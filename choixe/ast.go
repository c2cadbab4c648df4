package choixe

// Node is any element of a compiled Choixe AST. The concrete types below
// are the full variant set; evaluation (eval.go) and inspection
// (inspect.go) each switch over them.
type Node interface {
	isNode()
}

// LitNode is a primitive resolved at compile time: nil, bool, int64,
// float64, or string with no embedded directive.
type LitNode struct {
	Value any
}

// MapEntry is one key-value pair of a [MapNode]. Key is itself an AST
// because a map key may contain a directive (a bundle), per the data
// model's key-bundle rule.
type MapEntry struct {
	Key   Node
	Value Node
}

// MapNode is an ordered key-value mapping whose entries retain their
// source order.
type MapNode struct {
	Entries []MapEntry
}

// SeqNode is an ordered sequence of AST children.
type SeqNode struct {
	Items []Node
}

// BundleNode is emitted when a string contains at least one directive
// interleaved with plain text. It evaluates to the concatenation of its
// parts, each coerced to text.
type BundleNode struct {
	Parts []Node
}

// VarNode resolves a dotted identifier against the evaluation context,
// falling back to an environment variable and then to a compile-time
// default.
type VarNode struct {
	ID      string
	Default Node // nil if absent
	Env     bool
}

// ImportNode loads and inlines another document. Path is an AST because it
// may itself be a bundle or variable reference.
type ImportNode struct {
	Path Node
}

// SweepNode is the only branching node: its alternatives are the
// concatenation of each option's own alternative list.
type SweepNode struct {
	Options []Node
}

// CallNode invokes a resolved symbol with keyword arguments and embeds the
// result as an Opaque leaf.
type CallNode struct {
	Symbol Node
	Args   *MapNode
}

// ModelNode is like [CallNode] but requires the resolved symbol to satisfy
// structured-data-class constructor semantics (see [SymbolResolver]).
type ModelNode struct {
	Symbol Node
	Args   *MapNode
}

//go:generate go tool stringer --type LoopMode --output ast_string.go

// LoopMode fixes how a [ForNode] combines results across iterations. It is
// inferred once, at compile time, from the shape of the loop body.
type LoopMode int

const (
	LoopMap LoopMode = iota
	LoopSeq
	LoopString
)

// ForNode expands an iterable context value, evaluating a fresh copy of
// Body for each element and combining the results per Mode.
type ForNode struct {
	Iterable string
	LoopID   string // explicit id, or a compile-time-generated stable token
	Body     Node
	Mode     LoopMode
}

// ItemNode resolves to the current element of a loop frame: the innermost
// frame if Ref is empty, or the frame (and optional sub-path) named by Ref.
type ItemNode struct {
	Ref string
}

// IndexNode resolves to the integer position of a loop frame: the
// innermost frame if Ref is empty, or the frame named by Ref.
type IndexNode struct {
	Ref string
}

func (LitNode) isNode()    {}
func (MapNode) isNode()    {}
func (SeqNode) isNode()    {}
func (BundleNode) isNode() {}
func (VarNode) isNode()    {}
func (ImportNode) isNode() {}
func (SweepNode) isNode()  {}
func (CallNode) isNode()   {}
func (ModelNode) isNode()  {}
func (ForNode) isNode()    {}
func (ItemNode) isNode()   {}
func (IndexNode) isNode()  {}
