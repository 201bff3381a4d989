package snapshot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndList(t *testing.T) {
	store := New(t.TempDir())

	require.NoError(t, store.Save("v1", BenchmarkArtifacts{"scan_ns_op": 120.5}))
	require.NoError(t, store.Save("v2", BenchmarkArtifacts{"scan_ns_op": 100.0}))

	metas, err := store.List()
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.NotEmpty(t, metas[0].ID)
}

func TestSaveRefusesDuplicateName(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.Save("v1", BenchmarkArtifacts{"x": 1}))

	err := store.Save("v1", BenchmarkArtifacts{"x": 2})
	assert.True(t, errors.Is(err, ErrSnapshotExists))
}

func TestCompareComputesDecimalDeltas(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.Save("baseline", BenchmarkArtifacts{"scan_ns_op": 100.0}))
	require.NoError(t, store.Save("current", BenchmarkArtifacts{"scan_ns_op": 120.0}))

	report, err := store.Compare("baseline", "current")
	require.NoError(t, err)
	require.Len(t, report.Deltas, 1)

	d := report.Deltas[0]
	assert.Equal(t, "scan_ns_op", d.Metric)
	assert.Equal(t, "20", d.Delta.String())
	assert.Equal(t, "20", d.PercentChange.String())
}

func TestCompareMissingSnapshot(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.Save("baseline", BenchmarkArtifacts{"x": 1}))

	_, err := store.Compare("baseline", "nope")
	assert.True(t, errors.Is(err, ErrSnapshotNotFound))
}
