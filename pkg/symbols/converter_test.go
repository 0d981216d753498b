package symbols

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/require"
)

func testConverter(t *testing.T, args ...string) *DumpSymsConverter {
	if runtime.GOOS == "windows" {
		t.Skip("converter tests shell out to sh")
	}
	c, err := NewDumpSymsConverter(log.NewNopLogger(), DumpSymsConfig{
		Command: "sh",
		Args:    args,
		Timeout: time.Minute,
	}, nil)
	require.NoError(t, err)
	return c
}

func TestConvertCapturesStdout(t *testing.T) {
	c := testConverter(t, "-c", `cat "$0"`)

	dir := t.TempDir()
	native := filepath.Join(dir, "app.pdb")
	symbol := filepath.Join(dir, "app.sym")
	require.NoError(t, os.WriteFile(native, []byte("MODULE contents\n"), 0o644))

	require.NoError(t, c.Convert(context.Background(), native, symbol))

	got, err := os.ReadFile(symbol)
	require.NoError(t, err)
	require.Equal(t, []byte("MODULE contents\n"), got)

	// the converter never touches the native file
	_, err = os.Stat(native)
	require.NoError(t, err)
}

func TestConvertFailureRemovesPartialOutput(t *testing.T) {
	c := testConverter(t, "-c", `echo partial; echo boom >&2; exit 3`)

	dir := t.TempDir()
	native := filepath.Join(dir, "app.pdb")
	symbol := filepath.Join(dir, "app.sym")
	require.NoError(t, os.WriteFile(native, []byte("native"), 0o644))

	err := c.Convert(context.Background(), native, symbol)
	require.Error(t, err)
	require.ErrorContains(t, err, "boom")

	_, statErr := os.Stat(symbol)
	require.True(t, os.IsNotExist(statErr), "partial symbol output must be removed")

	_, statErr = os.Stat(native)
	require.NoError(t, statErr, "a failed conversion leaves the native file alone")
}

func TestConvertTimeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("converter tests shell out to sh")
	}
	c, err := NewDumpSymsConverter(log.NewNopLogger(), DumpSymsConfig{
		Command: "sh",
		Args:    []string{"-c", "sleep 10"},
		Timeout: 100 * time.Millisecond,
	}, nil)
	require.NoError(t, err)

	dir := t.TempDir()
	native := filepath.Join(dir, "app.pdb")
	symbol := filepath.Join(dir, "app.sym")
	require.NoError(t, os.WriteFile(native, []byte("native"), 0o644))

	start := time.Now()
	err = c.Convert(context.Background(), native, symbol)
	require.Error(t, err)
	require.Less(t, time.Since(start), 5*time.Second)

	_, statErr := os.Stat(symbol)
	require.True(t, os.IsNotExist(statErr))
}

func TestConvertMissingCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("converter tests shell out to sh")
	}
	c, err := NewDumpSymsConverter(log.NewNopLogger(), DumpSymsConfig{
		Command: "this-converter-does-not-exist",
		Timeout: time.Minute,
	}, nil)
	require.NoError(t, err)

	dir := t.TempDir()
	native := filepath.Join(dir, "app.pdb")
	symbol := filepath.Join(dir, "app.sym")
	require.NoError(t, os.WriteFile(native, []byte("native"), 0o644))

	require.Error(t, c.Convert(context.Background(), native, symbol))
	_, statErr := os.Stat(symbol)
	require.True(t, os.IsNotExist(statErr))
}

func TestDumpSymsConfigValidate(t *testing.T) {
	cfg := DumpSymsConfig{Command: "dump_syms", Timeout: time.Minute}
	require.NoError(t, cfg.Validate())

	cfg.Command = ""
	require.ErrorContains(t, cfg.Validate(), "converter command is required")

	cfg = DumpSymsConfig{Command: "dump_syms"}
	require.ErrorContains(t, cfg.Validate(), "converter timeout must be positive")
}
