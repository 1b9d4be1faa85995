package util

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/jmespath/go-jmespath"
)

// Projector evaluates a compiled JMESPath expression against log messages to
// produce the short value shown in collapsed rows.
type Projector struct {
	expr string
	jp   *jmespath.JMESPath
}

// NewProjector compiles expr. An empty expr yields a projector that never
// matches.
func NewProjector(expr string) (*Projector, error) {
	if expr == "" {
		return &Projector{}, nil
	}
	jp, err := jmespath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid jmespath %q: %w", expr, err)
	}
	return &Projector{expr: expr, jp: jp}, nil
}

// Expr returns the source expression.
func (p *Projector) Expr() string {
	if p == nil {
		return ""
	}
	return p.expr
}

// Project evaluates the expression against message (decoded as JSON if
// possible; otherwise wrapped as {"message": raw}) and returns a non-empty
// string representation. Array results use the first element only.
// Returns (value, true, nil) on success; ("", false, nil) if not found; or error.
func (p *Projector) Project(message string) (string, bool, error) {
	if p == nil || p.jp == nil || message == "" {
		return "", false, nil
	}
	var input any
	var decoded any
	if err := json.Unmarshal([]byte(message), &decoded); err == nil {
		input = decoded
	} else {
		input = map[string]any{"message": message}
	}

	res, err := p.jp.Search(input)
	if err != nil {
		return "", false, fmt.Errorf("jmespath search failed: %w", err)
	}
	if isEmpty(res) {
		return "", false, nil
	}
	rv := reflect.ValueOf(res)
	if rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
		res = rv.Index(0).Interface()
		if isEmpty(res) {
			return "", false, nil
		}
	}
	switch v := res.(type) {
	case string:
		return v, true, nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "", false, fmt.Errorf("marshal result failed: %w", err)
		}
		if s := string(b); s == "null" || s == "[]" || s == "{}" {
			return "", false, nil
		}
		return string(b), true, nil
	}
}

// ValidateExpr reports whether expr compiles. Empty is valid.
func ValidateExpr(expr string) error {
	_, err := NewProjector(expr)
	return err
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	}
	return false
}
