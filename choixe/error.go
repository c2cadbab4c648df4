package choixe

import (
	"errors"
	"log/slog"
	"strings"
)

// Error represents a choixe failure with optional structured logging
// attributes. It implements both error and slog.LogValuer.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the same sentinel, ignoring attrs and wraps
// attached via With/Wrap.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, attrs: e.attrs}
}

// With adds attributes to the error for structured logging, returning a new
// instance to preserve immutability of the package sentinel values.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{msg: e.msg, err: e.err, attrs: newAttrs}
}

// WrapError normalizes a standard error into an *Error, reusing the
// original if it already is one.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// field helpers keep call sites free of repeated slog.String boilerplate.
func fieldPath(path string) slog.Attr   { return slog.String("path", path) }
func fieldKey(key string) slog.Attr     { return slog.String("key", key) }
func fieldSource(src string) slog.Attr  { return slog.String("source", src) }
func fieldSymbol(sym string) slog.Attr  { return slog.String("symbol", sym) }
func fieldLoopRef(ref string) slog.Attr { return slog.String("ref", ref) }

// CompileError sentinels: structural problems discovered while lexing a
// directive-bearing string or compiling a raw tree into an AST.
var (
	ErrUnsupportedNesting = NewError("unsupported directive nesting")
	ErrUnterminatedCall   = NewError("unterminated directive call")
	ErrBadIdentifier      = NewError("bad identifier")
	ErrBadArgumentSyntax  = NewError("bad argument syntax")
	ErrUnknownDirective   = NewError("unknown directive")
	ErrBadDirectiveForm   = NewError("bad directive form")
	ErrBadArgumentSchema  = NewError("bad argument schema")
	ErrMixedSpecialKeys   = NewError("mixed special keys")
)

// RuntimeError sentinels: problems discovered while processing a compiled
// AST against a context.
var (
	ErrUnresolvedVariable    = NewError("unresolved variable")
	ErrUnresolvedEnvVariable = NewError("unresolved environment variable")
	ErrTypeMismatch          = NewError("type mismatch")
	ErrImportCycle           = NewError("import cycle")
	ErrImportNotFound        = NewError("import not found")
	ErrSymbolResolutionFailed = NewError("symbol resolution failed")
	ErrCallFailed            = NewError("call failed")
	ErrNotAModel             = NewError("not a model")
	ErrUnknownLoopRef        = NewError("unknown loop reference")
	ErrDuplicateKey          = NewError("duplicate key")
)
