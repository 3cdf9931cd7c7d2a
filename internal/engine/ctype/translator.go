// Package ctype translates Rust FFI type expressions into C declarations.
package ctype

import (
	"hdrgen/internal/core/errors"
	"regexp"
	"strings"
)

var (
	singleTokenRe = regexp.MustCompile(`^\S+$`)
	// Splits at the last whitespace; "." does not cross newlines.
	modifiedTypeRe = regexp.MustCompile(`^(.*)(\s\S+)$`)
)

// Translator is safe for concurrent use; it only reads its tables.
type Translator struct {
	types     TypeTable
	modifiers ModifierTable
}

func NewTranslator(types TypeTable, modifiers ModifierTable) *Translator {
	return &Translator{types: types, modifiers: modifiers}
}

// NewDefaultTranslator uses the built-in tables.
func NewDefaultTranslator() *Translator {
	return NewTranslator(DefaultTypeTable(), DefaultModifierTable())
}

func (t *Translator) Types() TypeTable {
	return t.types
}

func (t *Translator) Modifiers() ModifierTable {
	return t.modifiers
}

// Translate returns the C spelling of a Rust type expression: either a bare
// table type, or a recognized modifier followed by a table type.
func (t *Translator) Translate(raw string) (string, error) {
	if singleTokenRe.MatchString(raw) {
		ctype, ok := t.types.Lookup(raw)
		if !ok {
			return "", errors.New(errors.CodeUnknownType, "unknown type "+quote(raw)).
				WithContext(errors.CtxTypeExpression, raw).
				WithContext(errors.CtxBaseType, raw)
		}
		return ctype, nil
	}

	m := modifiedTypeRe.FindStringSubmatch(raw)
	if m == nil {
		return "", errors.New(errors.CodeUnrecognizedTypeExpression, "failed to parse type "+quote(raw)).
			WithContext(errors.CtxTypeExpression, raw)
	}

	mod := strings.TrimSpace(m[1])
	base := strings.TrimSpace(m[2])

	ctype, ok := t.types.Lookup(base)
	if !ok {
		return "", errors.New(errors.CodeUnknownType, "unknown type "+quote(base)).
			WithContext(errors.CtxTypeExpression, raw).
			WithContext(errors.CtxBaseType, base)
	}
	deco, ok := t.modifiers.Lookup(mod)
	if !ok {
		return "", errors.New(errors.CodeUnknownModifier, "unknown modifier "+quote(mod)+" in "+quote(raw)).
			WithContext(errors.CtxTypeExpression, raw).
			WithContext(errors.CtxModifier, mod)
	}
	return deco.Apply(ctype), nil
}

func quote(s string) string {
	return "'" + s + "'"
}
