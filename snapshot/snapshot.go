// Package snapshot builds immutable, queryable views of a dataset.
//
// A Snapshot pairs the knowledge graph with the semantic index built from
// the same Dataset. It is never mutated after Build returns, so request
// handlers share it without locks. Re-ingestion builds a new Snapshot and
// publishes it through a Holder.
package snapshot

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/poiesic/yojana/core"
	"github.com/poiesic/yojana/graph"
	"github.com/poiesic/yojana/index"
)

// Snapshot is a read-only graph and index pair.
type Snapshot struct {
	Graph   *graph.Store
	Index   *index.Index
	Version core.ID // content hash of the dataset's node, edge and chunk IDs
	BuiltAt time.Time
}

// Build validates a dataset and loads it into a new graph and index.
// All nodes are added before any edge, so edge order within the dataset
// does not matter. Duplicate nodes, dangling edges, invalid chunks and chunks
// citing unknown documents fail the whole build.
func Build(ds *Dataset) (*Snapshot, error) {
	if ds == nil {
		return nil, ErrDatasetRequired
	}

	g := graph.NewStore()
	for _, n := range ds.Nodes {
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("building graph: %w", err)
		}
	}
	for _, e := range ds.Edges {
		if err := g.AddEdge(e); err != nil {
			return nil, fmt.Errorf("building graph: %w", err)
		}
	}

	for _, c := range ds.Chunks {
		if c == nil {
			continue
		}
		n, ok := g.Node(c.DocumentID)
		if !ok || n.Kind() != core.NodeKindDocument {
			return nil, fmt.Errorf("%w: chunk %s document %s", ErrUnknownDocument, c.Id, c.DocumentID)
		}
	}
	ix := index.New()
	if err := ix.Add(ds.Chunks...); err != nil {
		return nil, fmt.Errorf("building index: %w", err)
	}

	s := &Snapshot{
		Graph:   g,
		Index:   ix,
		Version: Version(ds),
		BuiltAt: time.Now(),
	}
	slog.Default().With("component", "snapshot").Debug("snapshot built",
		"version", s.Version,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"chunks", ix.Len())
	return s, nil
}

// Version returns a content hash identifying the dataset's structure.
// It is independent of node, edge and chunk order.
func Version(ds *Dataset) core.ID {
	keys := make([]string, 0, len(ds.Nodes)+len(ds.Edges)+len(ds.Chunks))
	for _, n := range ds.Nodes {
		if n != nil {
			keys = append(keys, "n:"+n.Kind().String()+":"+string(n.NodeID()))
		}
	}
	for _, e := range ds.Edges {
		keys = append(keys, "e:"+string(e.Source)+":"+e.Relation.String()+":"+string(e.Target))
	}
	for _, c := range ds.Chunks {
		if c != nil {
			keys = append(keys, "c:"+string(c.Id))
		}
	}
	sort.Strings(keys)
	return core.IDFromContent(strings.Join(keys, "\n"))
}
