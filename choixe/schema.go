package choixe

// directiveSchema describes the arity and keyword names accepted by one of
// the directives parseable from the generic lexer/call form (var, import,
// sweep, item, index). call, model, and for are not parsed through this
// path: they only exist in the special map form (see compile.go).
type directiveSchema struct {
	minPos   int
	maxPos   int // -1 means unbounded (variadic)
	kwargs   map[string]ArgKind
	kwEnvLit bool // env kwarg is coerced to bool specially
}

var directiveSchemas = map[string]directiveSchema{
	"var": {
		minPos: 1, maxPos: 1,
		kwargs: map[string]ArgKind{"default": ArgLiteral, "env": ArgLiteral},
	},
	"import": {
		minPos: 1, maxPos: 1,
	},
	"sweep": {
		minPos: 1, maxPos: -1,
	},
	"item": {
		minPos: 0, maxPos: 1,
	},
	"index": {
		minPos: 0, maxPos: 1,
	},
}

// validateSchema enforces arity and keyword-name rules for call describes
// against its directive's schema. It checks keyword names only, not the
// ArgKind declared for them, since argument values are further validated
// by their own AST constructors (e.g. requiring a dotted identifier).
func validateSchema(call DirectiveCall) error {
	schema, ok := directiveSchemas[call.Name]
	if !ok {
		return ErrUnknownDirective.With(fieldKey(call.Name))
	}

	n := len(call.Args)
	if n < schema.minPos || (schema.maxPos >= 0 && n > schema.maxPos) {
		return ErrBadArgumentSchema.With(
			fieldKey(call.Name),
		)
	}

	for kw := range call.Kwargs {
		if _, ok := schema.kwargs[kw]; !ok {
			return ErrBadArgumentSchema.With(fieldKey(kw))
		}
	}

	return nil
}
