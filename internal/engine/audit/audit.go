// Package audit cross-checks the text extractor against a tree-sitter parse
// of the same Rust file. It reports exported extern "C" functions that the
// header generator will not pick up, for example because they are indented
// inside a module or use a restricted visibility.
package audit

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

type Finding struct {
	Path     string
	Function string
	Line     int
	Reason   string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s:%d: %s: %s", f.Path, f.Line, f.Function, f.Reason)
}

// Auditor holds the Rust grammar. A tree-sitter parser is created per Audit
// call, so one Auditor can be shared between goroutines.
type Auditor struct {
	language *sitter.Language
}

func New() *Auditor {
	return &Auditor{language: sitter.NewLanguage(tree_sitter_rust.Language())}
}

// Audit returns one finding per extern "C" function item in source whose
// name is missing from extracted.
func (a *Auditor) Audit(ctx context.Context, path string, source []byte, extracted []string) ([]Finding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(a.language); err != nil {
		return nil, fmt.Errorf("set rust language: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned nil tree for %s", path)
	}
	defer tree.Close()

	known := make(map[string]bool, len(extracted))
	for _, name := range extracted {
		known[name] = true
	}

	var findings []Finding
	walk(tree.RootNode(), func(node *sitter.Node) {
		if node.Kind() != "function_item" {
			return
		}
		nameNode := node.ChildByFieldName("name")
		if nameNode == nil {
			return
		}
		prefix := normalizeSpace(string(source[node.StartByte():nameNode.StartByte()]))
		if !strings.Contains(prefix, `extern "C"`) {
			return
		}
		name := nameNode.Utf8Text(source)
		if known[name] {
			return
		}
		reason, ok := missReason(node, prefix)
		if !ok {
			return
		}
		findings = append(findings, Finding{
			Path:     path,
			Function: name,
			Line:     int(node.StartPosition().Row) + 1,
			Reason:   reason,
		})
	})
	return findings, nil
}

// missReason explains why an extern "C" item was not extracted. Items that
// are not public at all are not exports and are not reported.
func missReason(node *sitter.Node, prefix string) (string, bool) {
	visibility, _, _ := strings.Cut(prefix, " ")
	switch {
	case !strings.HasPrefix(visibility, "pub"):
		return "", false
	case visibility != "pub":
		return fmt.Sprintf("visibility %q is not plain pub", visibility), true
	case node.StartPosition().Column != 0:
		return "declaration is indented; only declarations at the start of a line are exported", true
	default:
		return "declaration shape not recognized by the header generator", true
	}
}

func walk(node *sitter.Node, visit func(*sitter.Node)) {
	if node == nil {
		return
	}
	visit(node)
	for i := uint(0); i < node.ChildCount(); i++ {
		walk(node.Child(i), visit)
	}
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
