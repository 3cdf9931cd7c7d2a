package ctype

import (
	"sort"
	"strings"
)

// TypeTable maps Rust base type names to C type names. A TypeTable is never
// mutated after construction; Merge returns a new table.
type TypeTable struct {
	entries map[string]string
}

// NewTypeTable copies entries into a new table.
func NewTypeTable(entries map[string]string) TypeTable {
	m := make(map[string]string, len(entries))
	for k, v := range entries {
		m[k] = v
	}
	return TypeTable{entries: m}
}

// DefaultTypeTable returns the built-in Rust to C mapping.
func DefaultTypeTable() TypeTable {
	return NewTypeTable(map[string]string{
		"bool": "bool",
		"i8":   "int8_t",
		"i16":  "int16_t",
		"i32":  "int32_t",
		"i64":  "int64_t",

		"u8":  "uint8_t",
		"u16": "uint16_t",
		"u32": "uint32_t",
		"u64": "uint64_t",

		"libc::c_void": "void",

		"libc::c_char":  "char",
		"libc::c_int":   "int",
		"c_int":         "int",
		"libc::int8_t":  "int8_t",
		"libc::uint8_t": "uint8_t",

		"libc::uint16_t": "uint16_t",
		"libc::uint32_t": "uint32_t",
		"libc::uint64_t": "uint64_t",

		"SuricataContext":              "SuricataContext",
		"SuricataFileContext":          "SuricataFileContext",
		"FileContainer":                "FileContainer",
		"core::Flow":                   "Flow",
		"Flow":                         "Flow",
		"DNSState":                     "RSDNSState",
		"DNSTransaction":               "RSDNSTransaction",
		"NFSState":                     "NFSState",
		"NFSTransaction":               "NFSTransaction",
		"NTPState":                     "NTPState",
		"NTPTransaction":               "NTPTransaction",
		"TFTPTransaction":              "TFTPTransaction",
		"TFTPState":                    "TFTPState",
		"JsonT":                        "json_t",
		"DetectEngineState":            "DetectEngineState",
		"core::DetectEngineState":      "DetectEngineState",
		"core::AppLayerDecoderEvents":  "AppLayerDecoderEvents",
		"AppLayerDecoderEvents":        "AppLayerDecoderEvents",
		"core::AppLayerEventType":      "AppLayerEventType",
		"AppLayerEventType":            "AppLayerEventType",
		"CLuaState":                    "lua_State",
		"Store":                        "Store",
		"AppProto":                     "AppProto",
	})
}

// Merge returns a table holding t's entries overridden by extra.
func (t TypeTable) Merge(extra map[string]string) TypeTable {
	m := make(map[string]string, len(t.entries)+len(extra))
	for k, v := range t.entries {
		m[k] = v
	}
	for k, v := range extra {
		m[k] = v
	}
	return TypeTable{entries: m}
}

func (t TypeTable) Lookup(name string) (string, bool) {
	v, ok := t.entries[name]
	return v, ok
}

// Names returns the Rust type names in sorted order.
func (t TypeTable) Names() []string {
	names := make([]string, 0, len(t.entries))
	for k := range t.entries {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (t TypeTable) Len() int {
	return len(t.entries)
}

// Decoration is the C-side rendering of a pointer modifier.
type Decoration struct {
	Const bool
	Stars int
}

// Apply decorates a translated base type, e.g. "const uint8_t *".
func (d Decoration) Apply(base string) string {
	var b strings.Builder
	if d.Const {
		b.WriteString("const ")
	}
	b.WriteString(base)
	if d.Stars > 0 {
		b.WriteByte(' ')
		b.WriteString(strings.Repeat("*", d.Stars))
	}
	return b.String()
}

// ModifierTable is the closed set of modifier spellings the translator
// accepts in front of a base type.
type ModifierTable struct {
	entries map[string]Decoration
}

// DefaultModifierTable returns the recognized pointer and reference
// spellings. Chains not listed here are rejected.
func DefaultModifierTable() ModifierTable {
	mut := Decoration{Stars: 1}
	constPtr := Decoration{Const: true, Stars: 1}
	ptrToConstPtr := Decoration{Stars: 2}
	return ModifierTable{entries: map[string]Decoration{
		"*mut":         mut,
		"* mut":        mut,
		"&mut":         mut,
		"&'static mut": mut,

		"*const":  constPtr,
		"* const": constPtr,

		"*mut *const": ptrToConstPtr,
		"*mut*const":  ptrToConstPtr,
	}}
}

func (m ModifierTable) Lookup(spelling string) (Decoration, bool) {
	d, ok := m.entries[spelling]
	return d, ok
}

// Spellings returns the recognized modifier spellings in sorted order.
func (m ModifierTable) Spellings() []string {
	out := make([]string, 0, len(m.entries))
	for k := range m.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
