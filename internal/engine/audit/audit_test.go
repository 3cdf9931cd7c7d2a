package audit

import (
	"context"
	"testing"

	"hdrgen/internal/engine/extract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const auditSource = `use std::os::raw::c_char;

#[no_mangle]
pub extern "C" fn rs_top_level(x: u8) -> u8 {
    x
}

pub mod ffi {
    #[no_mangle]
    pub extern "C" fn rs_nested() {
    }
}

#[no_mangle]
pub(crate) extern "C" fn rs_crate_only() {
}

extern "C" fn rs_private() {
}

pub fn rs_plain_rust() {
}

extern "C" {
    fn imported_from_c(x: c_char);
}
`

func TestAudit_ReportsMissedExports(t *testing.T) {
	a := New()
	extracted := extract.Names(auditSource)
	require.Equal(t, []string{"rs_top_level"}, extracted)

	findings, err := a.Audit(context.Background(), "src/ffi.rs", []byte(auditSource), extracted)
	require.NoError(t, err)
	require.Len(t, findings, 2)

	assert.Equal(t, "rs_nested", findings[0].Function)
	assert.Equal(t, 10, findings[0].Line)
	assert.Contains(t, findings[0].Reason, "indented")

	assert.Equal(t, "rs_crate_only", findings[1].Function)
	assert.Contains(t, findings[1].Reason, "pub(crate)")
	assert.Equal(t, "src/ffi.rs:15: rs_crate_only: "+findings[1].Reason, findings[1].String())
}

func TestAudit_CleanFile(t *testing.T) {
	src := "pub unsafe extern \"C\" fn rs_ok(p: *mut Flow) {\n}\n"
	findings, err := New().Audit(context.Background(), "src/ok.rs", []byte(src), extract.Names(src))
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestAudit_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Audit(ctx, "src/x.rs", []byte("fn main() {}"), nil)
	assert.ErrorIs(t, err, context.Canceled)
}
