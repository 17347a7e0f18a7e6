// Package tmpl resolves computed-field templates against the working
// record. Rendering delegates to fasttemplate with {{ }} delimiters and
// strict-undefined semantics; output containing unexpanded placeholders
// is re-resolved, bounded by a fixed depth guard.
package tmpl

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/valyala/fasttemplate"

	"github.com/roach88/fieldgate/internal/ir"
)

// MaxDepth is the re-expansion bound. It is a safety valve against
// self-referential templates, not a correctness mechanism: a well-formed
// chain longer than MaxDepth links is rejected too.
const MaxDepth = 5

const (
	openMarker  = "{{"
	closeMarker = "}}"
)

// ErrorKind categorizes resolution failures.
type ErrorKind string

const (
	// KindRender indicates the underlying rendering primitive failed:
	// an undefined variable reference or malformed template syntax.
	KindRender ErrorKind = "TEMPLATE_RENDER_ERROR"

	// KindMaxDepth indicates re-expansion exceeded MaxDepth.
	KindMaxDepth ErrorKind = "TEMPLATE_DEPTH_EXCEEDED"
)

// Error is the error type produced by Resolve.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// IsMaxDepth reports whether err is a depth-guard violation.
func IsMaxDepth(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindMaxDepth
}

// IsRender reports whether err is an underlying render failure.
func IsRender(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindRender
}

// Resolve expands a template against the data environment. While the
// rendered output still contains both placeholder markers it is
// re-resolved as a new template, so computed fields may reference other
// computed fields without a statically known resolution order.
func Resolve(template string, data ir.Object) (string, error) {
	return resolve(template, data, 0)
}

func resolve(template string, data ir.Object, depth int) (string, error) {
	if depth > MaxDepth {
		return "", &Error{Kind: KindMaxDepth, Message: fmt.Sprintf("max evaluation depth %d reached", MaxDepth)}
	}

	// fasttemplate passes an unclosed start tag through as literal
	// text; strict rendering treats it as malformed.
	if idx := strings.LastIndex(template, openMarker); idx >= 0 {
		if !strings.Contains(template[idx+len(openMarker):], closeMarker) {
			return "", &Error{Kind: KindRender, Message: fmt.Sprintf("unclosed placeholder at offset %d", idx)}
		}
	}

	rendered, err := fasttemplate.ExecuteFuncStringWithErr(template, openMarker, closeMarker,
		func(w io.Writer, tag string) (int, error) {
			name := strings.TrimSpace(tag)
			v, ok := data[name]
			if !ok {
				// Strict undefined: no silent blank substitution.
				return 0, fmt.Errorf("undefined variable %q", name)
			}
			s, err := ir.ToString(v)
			if err != nil {
				return 0, fmt.Errorf("variable %q: %w", name, err)
			}
			return io.WriteString(w, s)
		})
	if err != nil {
		return "", &Error{Kind: KindRender, Message: err.Error()}
	}

	if strings.Contains(rendered, openMarker) && strings.Contains(rendered, closeMarker) {
		return resolve(rendered, data, depth+1)
	}
	return rendered, nil
}
