// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package graph implements the in-memory knowledge graph of schemes,
// criteria, benefits, documents and jurisdictions.
//
// Nodes live in an arena indexed by insertion order. Edges are stored as
// adjacency lists keyed by (node, relation) in both directions so every hop
// is a single map lookup. All traversals are bounded to one or two hops.
//
// A Store is built once per dataset and then only read. It performs no
// locking; concurrent readers are safe once loading has finished.
package graph

import (
	"fmt"

	"github.com/poiesic/yojana/core"
	"github.com/poiesic/yojana/rules"
)

// Direction selects which way an edge is followed.
type Direction int

const (
	// Outgoing follows edges from source to target.
	Outgoing Direction = iota + 1
	// Incoming follows edges from target back to source.
	Incoming
)

type adjKey struct {
	node     core.ID
	relation core.RelationKind
}

// endpoints lists the allowed (source kind, target kind) pairs per relation.
var endpoints = map[core.RelationKind][][2]core.NodeKind{
	core.RelationHasCriterion: {{core.NodeKindScheme, core.NodeKindCriterion}},
	core.RelationProvides:     {{core.NodeKindScheme, core.NodeKindBenefit}},
	core.RelationCites: {
		{core.NodeKindCriterion, core.NodeKindDocument},
		{core.NodeKindBenefit, core.NodeKindDocument},
	},
	core.RelationAppliesIn: {{core.NodeKindScheme, core.NodeKindJurisdiction}},
}

// Store is an arena-style typed property graph.
type Store struct {
	nodes  []core.Node
	byID   map[core.ID]int
	byKind map[core.NodeKind][]int
	out    map[adjKey][]core.ID
	in     map[adjKey][]core.ID
	edges  map[core.Edge]struct{}
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		byID:   make(map[core.ID]int),
		byKind: make(map[core.NodeKind][]int),
		out:    make(map[adjKey][]core.ID),
		in:     make(map[adjKey][]core.ID),
		edges:  make(map[core.Edge]struct{}),
	}
}

// kindOf returns the schema kind of a node after checking its concrete type
// belongs to the closed set of node variants.
func kindOf(node core.Node) (core.NodeKind, error) {
	switch n := node.(type) {
	case *core.Scheme:
		return core.NodeKindScheme, core.ValidateScheme(n)
	case *rules.Criterion:
		return core.NodeKindCriterion, rules.ValidateCriterion(n)
	case *core.Benefit:
		return core.NodeKindBenefit, core.ValidateBenefit(n)
	case *core.Document:
		return core.NodeKindDocument, core.ValidateDocument(n)
	case *core.Jurisdiction:
		if n.Id == "" {
			return 0, fmt.Errorf("jurisdiction: %w", core.ErrEmptyID)
		}
		return core.NodeKindJurisdiction, nil
	default:
		return 0, fmt.Errorf("unsupported node type %T", node)
	}
}

// AddNode inserts a node. The node's ID must not already be present.
func (s *Store) AddNode(node core.Node) error {
	if node == nil {
		return fmt.Errorf("%w: node is nil", ErrInvalidNode)
	}
	kind, err := kindOf(node)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidNode, err)
	}
	id := node.NodeID()
	if _, exists := s.byID[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, id)
	}

	s.byID[id] = len(s.nodes)
	s.byKind[kind] = append(s.byKind[kind], len(s.nodes))
	s.nodes = append(s.nodes, node)
	return nil
}

// AddEdge inserts a typed edge. Both endpoints must already exist and their
// kinds must match the relation's schema. Re-adding an existing edge is a no-op.
func (s *Store) AddEdge(edge core.Edge) error {
	if !edge.Relation.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidRelation, edge.Relation)
	}
	src, ok := s.Node(edge.Source)
	if !ok {
		return fmt.Errorf("%w: %s -%s-> %s: missing source", ErrDanglingEdge, edge.Source, edge.Relation, edge.Target)
	}
	dst, ok := s.Node(edge.Target)
	if !ok {
		return fmt.Errorf("%w: %s -%s-> %s: missing target", ErrDanglingEdge, edge.Source, edge.Relation, edge.Target)
	}
	if !allowed(edge.Relation, src.Kind(), dst.Kind()) {
		return fmt.Errorf("%w: %s cannot link %s to %s", ErrInvalidRelation, edge.Relation, src.Kind(), dst.Kind())
	}
	if _, exists := s.edges[edge]; exists {
		return nil
	}

	s.edges[edge] = struct{}{}
	outKey := adjKey{node: edge.Source, relation: edge.Relation}
	inKey := adjKey{node: edge.Target, relation: edge.Relation}
	s.out[outKey] = append(s.out[outKey], edge.Target)
	s.in[inKey] = append(s.in[inKey], edge.Source)
	return nil
}

func allowed(rel core.RelationKind, src, dst core.NodeKind) bool {
	for _, pair := range endpoints[rel] {
		if pair[0] == src && pair[1] == dst {
			return true
		}
	}
	return false
}

// Node returns the node with the given ID.
func (s *Store) Node(id core.ID) (core.Node, bool) {
	idx, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return s.nodes[idx], true
}

// NodesByKind returns every node of a kind in insertion order, keeping only
// those accepted by predicate when it is non-nil.
func (s *Store) NodesByKind(kind core.NodeKind, predicate func(core.Node) bool) []core.Node {
	indexes := s.byKind[kind]
	out := make([]core.Node, 0, len(indexes))
	for _, idx := range indexes {
		n := s.nodes[idx]
		if predicate == nil || predicate(n) {
			out = append(out, n)
		}
	}
	return out
}

// Neighbors returns the IDs one hop away along relation in the given direction,
// in edge insertion order. The returned slice is owned by the caller.
func (s *Store) Neighbors(id core.ID, relation core.RelationKind, dir Direction) []core.ID {
	key := adjKey{node: id, relation: relation}
	var ids []core.ID
	switch dir {
	case Outgoing:
		ids = s.out[key]
	case Incoming:
		ids = s.in[key]
	}
	return append([]core.ID(nil), ids...)
}

// NodeCount returns the number of nodes in the store.
func (s *Store) NodeCount() int {
	return len(s.nodes)
}

// EdgeCount returns the number of distinct edges in the store.
func (s *Store) EdgeCount() int {
	return len(s.edges)
}

// order returns the insertion position of a node, used to keep results stable.
func (s *Store) order(id core.ID) int {
	return s.byID[id]
}
