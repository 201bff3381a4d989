package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lykia-rs/lykiadb-sub001/internal/lang/scanner"
)

func TestReportScanErrorPrintsExcerpt(t *testing.T) {
	src := "var $x = 1 ~ 2;"
	_, err := scanner.ScanAll(src)
	require.Error(t, err)

	var buf bytes.Buffer
	New(&buf).Report("query.lykia", src, err)

	out := buf.String()
	assert.Contains(t, out, "scan error")
	assert.Contains(t, out, "query.lykia")
	assert.Contains(t, out, src)
	assert.Contains(t, out, "^")
}

func TestReportNilErrorIsNoop(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Report("query.lykia", "", nil)
	assert.Empty(t, buf.String())
}

func TestReportUnknownErrorPrintsPlainMessage(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Report("query.lykia", "x", assertError{"boom"})
	assert.True(t, strings.Contains(buf.String(), "boom"))
}

type assertError struct{ msg string }

func (e assertError) Error() string { return e.msg }
