// Package choixe implements a configuration templating mini-language
// embedded inside any data tree whose leaves are primitives (integers,
// floats, booleans, strings, null) and whose composite nodes are ordered
// key-value mappings and ordered sequences.
//
// # Philosophy
//
// A plain data tree becomes a parameterizable template by introducing
// directives: a small set of syntactic forms denoting variables, imports,
// sweeps (cartesian branching), dynamic object construction, and
// foreach-style expansion. A caller loads a tree, compiles it into an AST
// with [Compile], evaluates the AST against a runtime context with
// [Process], and obtains either a single resolved tree or, when branching
// directives are present, a list of resolved trees.
//
// # Directive surface
//
//   - Compact: $name, permitted only for directives accepting zero
//     positional and zero keyword arguments (item, index).
//   - Call: $name(args...).
//   - Extended: {"$directive": name, "$args": [...], "$kwargs": {...}},
//     the only form that permits directive nesting inside arguments.
//   - Special: {"$call": ..., "$args": {...}}, {"$model": ..., "$args": {...}},
//     {"$for(iterable[, id])": body}.
//
// # Pipeline
//
//	Lex -> parse directive args -> compile tree to AST -> process AST -> Tree
//
// [Inspect] offers a second read of the same AST that walks directives
// without evaluating side effects, collecting required variables,
// environment keys, imports, and symbols.
package choixe
