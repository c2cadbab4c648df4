package choixe

// VariableRef describes one $var reference discovered by [Inspect].
type VariableRef struct {
	ID         string
	Env        bool
	HasDefault bool
}

// Inspection is the result of a non-evaluating walk over a compiled AST:
// every external dependency the tree has, without touching a context,
// resolver, or loader. It is sound in the sense that it never fails and
// never invokes a symbol or import, unlike [Process].
type Inspection struct {
	Variables []VariableRef
	Imports   []string
	Calls     []string
	Models    []string
	Loops     []string
	Sweeps    int
	Processed bool
}

// Inspect walks node and reports every variable, import, call, model, and
// loop it contains, along with the number of sweep sites. Symbol and
// import path values that are themselves dynamic (not a plain literal)
// are omitted from Calls/Models/Imports since their identity isn't known
// without evaluation; they are still counted through Sweeps and Variables
// via the ordinary walk of their sub-trees. A [ForNode]'s iterable is
// recorded under Variables as an uninitialized reference, since it must be
// resolvable for the loop to process at all. Processed is true iff the
// walk visits at least one directive node.
func Inspect(node Node) Inspection {
	var insp Inspection

	inspectNode(node, &insp)

	return insp
}

func inspectNode(node Node, insp *Inspection) {
	switch n := node.(type) {
	case LitNode:

	case BundleNode:
		for _, p := range n.Parts {
			inspectNode(p, insp)
		}

	case MapNode:
		for _, e := range n.Entries {
			inspectNode(e.Key, insp)
			inspectNode(e.Value, insp)
		}

	case SeqNode:
		for _, item := range n.Items {
			inspectNode(item, insp)
		}

	case SweepNode:
		insp.Sweeps++
		insp.Processed = true

		for _, opt := range n.Options {
			inspectNode(opt, insp)
		}

	case VarNode:
		insp.Processed = true
		insp.Variables = append(insp.Variables, VariableRef{
			ID: n.ID, Env: n.Env, HasDefault: n.Default != nil,
		})

		if n.Default != nil {
			inspectNode(n.Default, insp)
		}

	case ImportNode:
		insp.Processed = true

		if s, ok := literalString(n.Path); ok {
			insp.Imports = append(insp.Imports, s)
		}

		inspectNode(n.Path, insp)

	case CallNode:
		insp.Processed = true

		if s, ok := literalString(n.Symbol); ok {
			insp.Calls = append(insp.Calls, s)
		}

		inspectNode(n.Symbol, insp)

		if n.Args != nil {
			inspectNode(*n.Args, insp)
		}

	case ModelNode:
		insp.Processed = true

		if s, ok := literalString(n.Symbol); ok {
			insp.Models = append(insp.Models, s)
		}

		inspectNode(n.Symbol, insp)

		if n.Args != nil {
			inspectNode(*n.Args, insp)
		}

	case ForNode:
		insp.Processed = true
		insp.Loops = append(insp.Loops, n.LoopID)
		insp.Variables = append(insp.Variables, VariableRef{ID: n.Iterable})
		inspectNode(n.Body, insp)

	case ItemNode:
		insp.Processed = true

	case IndexNode:
		insp.Processed = true
	}
}
