package generator

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/xcgen/xcgen/pkg/model"
)

// snapshotVersion guards the cached graph encoding. Bump on incompatible
// model changes so stale caches force regeneration.
const snapshotVersion = 1

// The serialized graph lives at <workspace>/xcgen/graph.msgpack.
const snapshotDir = "xcgen"
const snapshotFile = "graph.msgpack"

// snapshot is the on-disk form of a generated graph
type snapshot struct {
	Version     int          `msgpack:"version"`
	RunID       string       `msgpack:"run_id"`
	GeneratedAt time.Time    `msgpack:"generated_at"`
	Graph       *model.Graph `msgpack:"graph"`
}

func (g *Generator) writeSnapshot(workspacePath string, graph *model.Graph) error {
	snap := snapshot{
		Version:     snapshotVersion,
		RunID:       runID(),
		GeneratedAt: generatedAt(),
		Graph:       graph,
	}
	data, err := msgpack.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("encoding graph snapshot: %w", err)
	}
	path := filepath.Join(workspacePath, snapshotDir, snapshotFile)
	return g.fs.WriteFile(path, data)
}

func (g *Generator) readSnapshot(workspacePath string) (*model.Graph, error) {
	path := filepath.Join(workspacePath, snapshotDir, snapshotFile)
	data, err := g.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading graph snapshot %s: %w", path, err)
	}

	var snap snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding graph snapshot %s: %w", path, err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("graph snapshot %s has version %d, expected %d: regenerate with --generate",
			path, snap.Version, snapshotVersion)
	}
	if snap.Graph == nil {
		return nil, fmt.Errorf("graph snapshot %s is empty: regenerate with --generate", path)
	}
	return snap.Graph, nil
}
