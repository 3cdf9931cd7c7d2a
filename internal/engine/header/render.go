package header

import (
	"path/filepath"
	"strings"
)

const generatedNotice = `/*
 * DO NOT EDIT. This file is automatically generated.
 */
`

// Document is everything needed to render one generated header.
type Document struct {
	Guard      string
	Banner     string
	Prototypes []string
}

// GuardName derives the include guard identifier from the header's file name,
// e.g. "rust-dns-log-gen.h" becomes "RUST_DNS_LOG_GEN_H".
func GuardName(outputPath string) string {
	base := filepath.Base(outputPath)
	base = strings.NewReplacer("-", "_", ".", "_").Replace(base)
	return strings.ToUpper(base)
}

// Render produces the header text. Output depends only on doc, so identical
// input always renders identical bytes.
func Render(doc Document) string {
	guard := "__" + doc.Guard + "__"

	var b strings.Builder
	if banner := strings.TrimRight(doc.Banner, "\n"); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n\n")
	}
	b.WriteString(generatedNotice)
	b.WriteString("\n")
	b.WriteString("#ifndef " + guard + "\n")
	b.WriteString("#define " + guard + "\n")
	b.WriteString("\n")
	for _, line := range doc.Prototypes {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString("#endif /* ! " + guard + " */\n")
	return b.String()
}
