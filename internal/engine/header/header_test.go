package header

import (
	"testing"

	"hdrgen/internal/core/errors"
	"hdrgen/internal/engine/ctype"
	"hdrgen/internal/engine/extract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPrototype(t *testing.T) {
	t.Parallel()

	tr := ctype.NewDefaultTranslator()
	cases := []struct {
		name string
		fn   extract.FunctionDescriptor
		want string
	}{
		{
			name: "NoParamsNoReturn",
			fn:   extract.FunctionDescriptor{Name: "example_fn"},
			want: "void example_fn(void);",
		},
		{
			name: "PointerParamFixedWidthReturn",
			fn: extract.FunctionDescriptor{
				Name:       "rs_dns_state_get_tx_count",
				Params:     []extract.Param{{Name: "state", Type: "*mut DNSState"}},
				ReturnType: "u64",
				HasReturn:  true,
			},
			want: "uint64_t rs_dns_state_get_tx_count(RSDNSState * state);",
		},
		{
			name: "PlaceholderIsTypeOnly",
			fn: extract.FunctionDescriptor{
				Name: "rs_nfs_init",
				Params: []extract.Param{
					{Name: "context", Type: "&'static mut SuricataFileContext"},
					{Name: "_", Type: "u8"},
				},
			},
			want: "void rs_nfs_init(SuricataFileContext * context, uint8_t);",
		},
		{
			name: "ConstPointerReturn",
			fn: extract.FunctionDescriptor{
				Name:       "rs_name",
				ReturnType: "*const libc::c_char",
				HasReturn:  true,
			},
			want: "const char * rs_name(void);",
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := FormatPrototype(tc.fn, tr)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatPrototype_Errors(t *testing.T) {
	t.Parallel()

	tr := ctype.NewDefaultTranslator()

	_, err := FormatPrototype(extract.FunctionDescriptor{
		Name:   "rs_bad_param",
		Params: []extract.Param{{Name: "x", Type: "*weird u8"}},
	}, tr)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUnknownModifier))
	fn, _ := errors.ContextValue(err, errors.CtxFunction)
	assert.Equal(t, "rs_bad_param", fn)

	_, err = FormatPrototype(extract.FunctionDescriptor{
		Name:       "rs_bad_return",
		ReturnType: "Vec<u8>",
		HasReturn:  true,
	}, tr)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUnknownType))
}

func TestPrototypes_OrderAndAbort(t *testing.T) {
	t.Parallel()

	tr := ctype.NewDefaultTranslator()
	src := `pub extern "C" fn first() {
}
pub extern "C" fn second(x: u32) -> bool {
}
`
	lines, err := Prototypes(extract.Extract(src), tr)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"void first(void);",
		"bool second(uint32_t x);",
	}, lines)

	bad := src + "pub extern \"C\" fn third(x: String) {\n}\n"
	lines, err = Prototypes(extract.Extract(bad), tr)
	require.Error(t, err)
	assert.Nil(t, lines)
}

func TestGuardName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "RUST_DNS_LOG_GEN_H", GuardName("gen/c-headers/rust-dns-log-gen.h"))
	assert.Equal(t, "RUST_LIB_GEN_H", GuardName("rust-lib-gen.h"))
}

func TestRender(t *testing.T) {
	t.Parallel()

	doc := Document{
		Guard:      "RUST_CORE_GEN_H",
		Banner:     "/* Copyright (C) 2017 Example */\n",
		Prototypes: []string{"void a(void);", "bool b(uint8_t x);"},
	}
	want := `/* Copyright (C) 2017 Example */

/*
 * DO NOT EDIT. This file is automatically generated.
 */

#ifndef __RUST_CORE_GEN_H__
#define __RUST_CORE_GEN_H__

void a(void);
bool b(uint8_t x);

#endif /* ! __RUST_CORE_GEN_H__ */
`
	assert.Equal(t, want, Render(doc))
	assert.Equal(t, Render(doc), Render(doc))
}

func TestRender_NoBanner(t *testing.T) {
	t.Parallel()

	out := Render(Document{Guard: "X_H", Prototypes: []string{"void a(void);"}})
	assert.Equal(t, "/*\n * DO NOT EDIT. This file is automatically generated.\n */\n\n#ifndef __X_H__\n#define __X_H__\n\nvoid a(void);\n\n#endif /* ! __X_H__ */\n", out)
}
