// Package extract finds exported `extern "C"` functions in Rust source text.
//
// Only one declaration shape is recognized:
//
//	pub [unsafe ]extern "C" fn name(params)[ -> return] {
//
// starting at the beginning of a line. Anything else is ignored rather than
// reported, so a file without exports simply yields nothing.
package extract

import (
	"iter"
	"regexp"
	"strings"
)

// Groups: 1 unsafe, 2 name, 3 params, 4 arrow clause, 5 return type.
var exportedFnRe = regexp.MustCompile(
	`(?ms)^pub (unsafe )?extern "C" fn ([A-Za-z0-9_]+)\(([^{]+)?\)` +
		`(\s+-> ([^{]+))?`)

// Extract returns the exported functions declared in source, in source order.
// The sequence is lazy and can be ranged over more than once.
func Extract(source string) iter.Seq[FunctionDescriptor] {
	return func(yield func(FunctionDescriptor) bool) {
		for _, m := range exportedFnRe.FindAllStringSubmatchIndex(source, -1) {
			fn, ok := descriptorFromMatch(source, m)
			if !ok {
				continue
			}
			if !yield(fn) {
				return
			}
		}
	}
}

// All collects Extract into a slice.
func All(source string) []FunctionDescriptor {
	var out []FunctionDescriptor
	for fn := range Extract(source) {
		out = append(out, fn)
	}
	return out
}

// Names returns the names of the exported functions in source order.
func Names(source string) []string {
	var out []string
	for fn := range Extract(source) {
		out = append(out, fn.Name)
	}
	return out
}

func descriptorFromMatch(source string, m []int) (FunctionDescriptor, bool) {
	fn := FunctionDescriptor{Name: group(source, m, 2)}

	params, ok := splitParams(group(source, m, 3))
	if !ok {
		return FunctionDescriptor{}, false
	}
	fn.Params = params

	if ret := strings.TrimSpace(group(source, m, 5)); ret != "" {
		fn.ReturnType = ret
		fn.HasReturn = true
	}
	return fn, true
}

// splitParams splits a raw parameter list on commas and each parameter on
// its first colon. A segment without a colon means the declaration is not
// the supported shape.
func splitParams(raw string) ([]Param, bool) {
	var params []Param
	for _, seg := range strings.Split(raw, ",") {
		if strings.TrimSpace(seg) == "" {
			continue
		}
		name, typ, found := strings.Cut(seg, ":")
		if !found {
			return nil, false
		}
		params = append(params, Param{
			Name: strings.TrimSpace(name),
			Type: strings.TrimSpace(typ),
		})
	}
	return params, true
}

func group(s string, m []int, n int) string {
	if 2*n+1 >= len(m) || m[2*n] < 0 {
		return ""
	}
	return s[m[2*n]:m[2*n+1]]
}
