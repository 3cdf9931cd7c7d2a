package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"hdrgen/internal/core/app"
	"hdrgen/internal/core/config"
	"hdrgen/internal/data/history"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestFiles(t *testing.T, tmpDir string) {
	err := os.WriteFile(filepath.Join(tmpDir, "Cargo.toml"), []byte("[package]\nname = \"suricata\"\n"), 0o644)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "src", "nfs"), 0o755))

	lib := `use std::os::raw::c_char;

#[no_mangle]
pub extern "C" fn rs_init(context: &'static mut SuricataContext) {
}

#[no_mangle]
pub extern "C" fn rs_version() -> *const libc::c_char {
    std::ptr::null()
}
`
	err = os.WriteFile(filepath.Join(tmpDir, "src", "lib.rs"), []byte(lib), 0o644)
	require.NoError(t, err)

	nfs := `#[no_mangle]
pub extern "C" fn rs_nfs_state_new() -> *mut NFSState {
    std::ptr::null_mut()
}

#[no_mangle]
pub extern "C" fn rs_nfs_parse(state: &mut NFSState,
                               input: *const u8,
                               input_len: u32)
                               -> i8 {
    0
}
`
	err = os.WriteFile(filepath.Join(tmpDir, "src", "nfs", "nfs.rs"), []byte(nfs), 0o644)
	require.NoError(t, err)

	err = os.WriteFile(filepath.Join(tmpDir, "hdrgen.toml"), []byte(`
[types]
MyHandle = "my_handle_t"

[watch]
debounce = "50ms"

[db]
enabled = true
`), 0o644)
	require.NoError(t, err)
}

func TestFullPipelineIntegration(t *testing.T) {
	tmpDir := t.TempDir()
	createTestFiles(t, tmpDir)

	cfg, err := config.Load(filepath.Join(tmpDir, "hdrgen.toml"))
	require.NoError(t, err)
	cfg.Paths.ProjectRoot = tmpDir

	appInstance, err := app.New(cfg)
	require.NoError(t, err)
	defer appInstance.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	summary, err := appInstance.GenerateAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Count(history.StatusWritten))

	headers := filepath.Join(tmpDir, "gen", "c-headers")
	libHeader, err := os.ReadFile(filepath.Join(headers, "rust-lib-gen.h"))
	require.NoError(t, err)
	assert.Contains(t, string(libHeader), "void rs_init(SuricataContext * context);\nconst char * rs_version(void);\n")

	nfsHeader, err := os.ReadFile(filepath.Join(headers, "rust-nfs-nfs-gen.h"))
	require.NoError(t, err)
	assert.Contains(t, string(nfsHeader), "NFSState * rs_nfs_state_new(void);")
	assert.Contains(t, string(nfsHeader), "int8_t rs_nfs_parse(NFSState * state, const uint8_t * input, uint32_t input_len);")
	assert.Contains(t, string(nfsHeader), "#ifndef __RUST_NFS_NFS_GEN_H__")

	updates := make(chan app.Update, 8)
	appInstance.SetUpdateHandler(func(u app.Update) { updates <- u })
	require.NoError(t, appInstance.StartWatcher(ctx))

	handleSrc := "pub extern \"C\" fn rs_handle_free(h: *mut MyHandle) {\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "src", "handle.rs"), []byte(handleSrc), 0o644))

	handleHeader := filepath.Join(headers, "rust-handle-gen.h")
	waitFor(t, updates, func() bool {
		data, err := os.ReadFile(handleHeader)
		return err == nil && strings.Contains(string(data), "void rs_handle_free(my_handle_t * h);")
	})

	require.NoError(t, os.Remove(filepath.Join(tmpDir, "src", "nfs", "nfs.rs")))
	waitFor(t, updates, func() bool {
		_, err := os.Stat(filepath.Join(headers, "rust-nfs-nfs-gen.h"))
		return os.IsNotExist(err)
	})

	reports, err := appInstance.RecentRuns(10)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(reports), 2)
	assert.Equal(t, summary.RunID, reports[len(reports)-1].Run.ID)
}

func waitFor(t *testing.T, updates <-chan app.Update, done func() bool) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for !done() {
		select {
		case <-updates:
		case <-timeout:
			t.Fatal("timed out waiting for watch-mode regeneration")
		}
	}
}
