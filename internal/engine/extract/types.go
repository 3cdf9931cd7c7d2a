package extract

// Placeholder is the parameter name Rust uses for an ignored argument.
const Placeholder = "_"

// Param is one parameter of an exported function, as written in the source.
type Param struct {
	Name string
	Type string
}

// Named reports whether the parameter carries a name in the C prototype.
func (p Param) Named() bool {
	return p.Name != Placeholder
}

// FunctionDescriptor describes one exported function found in a source file.
// Params is nil for a function without parameters.
type FunctionDescriptor struct {
	Name       string
	Params     []Param
	ReturnType string
	HasReturn  bool
}
