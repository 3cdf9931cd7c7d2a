// Package header turns extracted function descriptors into C prototypes and
// wraps them in a generated header document.
package header

import (
	"fmt"
	"hdrgen/internal/core/errors"
	"hdrgen/internal/engine/extract"
	"iter"
	"strings"
)

// TypeTranslator converts one Rust type expression to its C spelling.
type TypeTranslator interface {
	Translate(raw string) (string, error)
}

// FormatPrototype renders one declaration line without trailing newline.
func FormatPrototype(fn extract.FunctionDescriptor, tr TypeTranslator) (string, error) {
	args := make([]string, 0, len(fn.Params))
	for _, p := range fn.Params {
		ctype, err := tr.Translate(p.Type)
		if err != nil {
			return "", errors.AddContext(fmt.Errorf("parameter %q of %s: %w", p.Name, fn.Name, err), errors.CtxFunction, fn.Name)
		}
		if p.Named() {
			args = append(args, ctype+" "+p.Name)
		} else {
			args = append(args, ctype)
		}
	}
	if len(args) == 0 {
		args = append(args, "void")
	}

	returns := "void"
	if fn.HasReturn {
		ctype, err := tr.Translate(fn.ReturnType)
		if err != nil {
			return "", errors.AddContext(fmt.Errorf("return type of %s: %w", fn.Name, err), errors.CtxFunction, fn.Name)
		}
		returns = ctype
	}

	return fmt.Sprintf("%s %s(%s);", returns, fn.Name, strings.Join(args, ", ")), nil
}

// Prototypes formats every descriptor in order. The first translation
// failure aborts the whole list.
func Prototypes(fns iter.Seq[extract.FunctionDescriptor], tr TypeTranslator) ([]string, error) {
	var out []string
	for fn := range fns {
		line, err := FormatPrototype(fn, tr)
		if err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, nil
}
