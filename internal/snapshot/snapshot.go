// Package snapshot persists benchmark artifacts to named, timestamped
// directories under a snapshots root, and compares two of them.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrSnapshotNotFound is returned by Compare when either name has no
	// corresponding snapshot directory.
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrSnapshotExists is returned by Save when the name is already taken.
	ErrSnapshotExists = errors.New("snapshot already exists")
)

// BenchmarkArtifacts is the set of named numeric measurements a snapshot
// captures for one benchmark run.
type BenchmarkArtifacts map[string]float64

// SnapshotMeta is the metadata recorded alongside each snapshot's
// artifacts, serialized as meta.json.
type SnapshotMeta struct {
	Name      string    `json:"name"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// MetricDelta is the decimal-precise comparison of one named artifact
// between a baseline and a current snapshot.
type MetricDelta struct {
	Metric   string          `json:"metric"`
	Baseline decimal.Decimal `json:"baseline"`
	Current  decimal.Decimal `json:"current"`
	Delta    decimal.Decimal `json:"delta"`
	// PercentChange is (current-baseline)/baseline*100, zero if baseline
	// is zero (avoids a division by zero rather than reporting Inf).
	PercentChange decimal.Decimal `json:"percent_change"`
}

// ComparisonReport is the result of comparing two snapshots.
type ComparisonReport struct {
	Baseline SnapshotMeta  `json:"baseline"`
	Current  SnapshotMeta  `json:"current"`
	Deltas   []MetricDelta `json:"deltas"`
}

// Store saves, lists, and compares snapshots rooted at Dir.
type Store struct {
	Dir string
}

// New returns a Store rooted at dir, which is created on first Save if
// it doesn't already exist.
func New(dir string) *Store {
	return &Store{Dir: dir}
}

// Save writes artifacts and a fresh meta.json to snapshots/<name>/.
func (s *Store) Save(name string, artifacts BenchmarkArtifacts) error {
	dir := filepath.Join(s.Dir, name)
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("%w: %s", ErrSnapshotExists, name)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	meta := SnapshotMeta{
		Name:      name,
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}

	if err := writeJSON(filepath.Join(dir, "meta.json"), meta); err != nil {
		return err
	}

	return writeJSON(filepath.Join(dir, "artifacts.json"), artifacts)
}

// Compare loads the baseline and current snapshots and computes a
// decimal-precise delta per artifact present in either one.
func (s *Store) Compare(baseline, current string) (ComparisonReport, error) {
	baseMeta, baseArtifacts, err := s.load(baseline)
	if err != nil {
		return ComparisonReport{}, err
	}

	curMeta, curArtifacts, err := s.load(current)
	if err != nil {
		return ComparisonReport{}, err
	}

	names := make(map[string]struct{}, len(baseArtifacts)+len(curArtifacts))
	for name := range baseArtifacts {
		names[name] = struct{}{}
	}
	for name := range curArtifacts {
		names[name] = struct{}{}
	}

	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	deltas := make([]MetricDelta, 0, len(sorted))
	for _, name := range sorted {
		base := decimal.NewFromFloat(baseArtifacts[name])
		cur := decimal.NewFromFloat(curArtifacts[name])
		delta := cur.Sub(base)

		percent := decimal.Zero
		if !base.IsZero() {
			percent = delta.Div(base).Mul(decimal.NewFromInt(100))
		}

		deltas = append(deltas, MetricDelta{
			Metric:        name,
			Baseline:      base,
			Current:       cur,
			Delta:         delta,
			PercentChange: percent,
		})
	}

	return ComparisonReport{Baseline: baseMeta, Current: curMeta, Deltas: deltas}, nil
}

// List returns every snapshot's metadata, most recently created first.
func (s *Store) List() ([]SnapshotMeta, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list snapshots directory: %w", err)
	}

	metas := make([]SnapshotMeta, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := readMeta(filepath.Join(s.Dir, entry.Name()))
		if err != nil {
			continue
		}

		metas = append(metas, meta)
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].CreatedAt.After(metas[j].CreatedAt)
	})

	return metas, nil
}

func (s *Store) load(name string) (SnapshotMeta, BenchmarkArtifacts, error) {
	dir := filepath.Join(s.Dir, name)
	if _, err := os.Stat(dir); err != nil {
		return SnapshotMeta{}, nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, name)
	}

	meta, err := readMeta(dir)
	if err != nil {
		return SnapshotMeta{}, nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, "artifacts.json"))
	if err != nil {
		return SnapshotMeta{}, nil, fmt.Errorf("failed to read snapshot artifacts: %w", err)
	}

	var artifacts BenchmarkArtifacts
	if err := json.Unmarshal(data, &artifacts); err != nil {
		return SnapshotMeta{}, nil, fmt.Errorf("failed to parse snapshot artifacts: %w", err)
	}

	return meta, artifacts, nil
}

func readMeta(dir string) (SnapshotMeta, error) {
	data, err := os.ReadFile(filepath.Join(dir, "meta.json"))
	if err != nil {
		return SnapshotMeta{}, fmt.Errorf("failed to read snapshot metadata: %w", err)
	}

	var meta SnapshotMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return SnapshotMeta{}, fmt.Errorf("failed to parse snapshot metadata: %w", err)
	}

	return meta, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}

	return nil
}
