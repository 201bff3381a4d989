package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunCmdExecutesScript(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "hello.lykia", `io.print("hello");`)

	cmd := &RunCmd{ScriptFile: script}
	require.NoError(t, cmd.Run(&Context{Config: filepath.Join(dir, "missing.yaml")}))
}

func TestRunCmdMissingScript(t *testing.T) {
	cmd := &RunCmd{ScriptFile: "/no/such/file.lykia"}
	err := cmd.Run(&Context{Config: ""})
	assert.ErrorIs(t, err, ErrScriptNotFound)
}
