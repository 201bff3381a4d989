package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplainCmdRendersPlanToFile(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "query.lykia", `select * from orders o where o.amount > 0;`)
	out := filepath.Join(dir, "plan.md")

	cmd := &ExplainCmd{ScriptFile: script, Output: out}
	require.NoError(t, cmd.Run(&Context{}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Query plan")
	assert.Contains(t, string(data), "Scan")
}
