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

package storage

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/poiesic/yojana/core"
	"github.com/poiesic/yojana/rules"
)

// Criterion value tags.
const (
	valueNil byte = iota
	valueBool
	valueInt
	valueFloat
	valueString
	valueList
)

// MarshalNode serializes a graph node, prefixed with its kind.
func MarshalNode(node core.Node) ([]byte, error) {
	e := &encoder{}
	switch n := node.(type) {
	case *core.Scheme:
		e.writeInt(int(core.NodeKindScheme))
		e.writeID(n.Id)
		e.writeString(n.Name)
		e.writeStrings(n.Domains)
		e.writeStrings(n.Jurisdictions)
		e.writeIDs(n.CriterionIDs)
		e.writeIDs(n.BenefitIDs)
	case *rules.Criterion:
		e.writeInt(int(core.NodeKindCriterion))
		e.writeID(n.Id)
		e.writeID(n.SchemeID)
		e.writeString(n.Rule.Field)
		e.writeInt(int(n.Rule.Operator))
		if err := writeValue(e, n.Rule.Value); err != nil {
			return nil, fmt.Errorf("criterion %s: %w", n.Id, err)
		}
		e.writeBool(n.Rule.Required)
		e.writeString(n.Description)
		e.writeInt(len(n.Provenance))
		for _, p := range n.Provenance {
			e.writeProvenance(p)
		}
	case *core.Benefit:
		e.writeInt(int(core.NodeKindBenefit))
		e.writeID(n.Id)
		e.writeID(n.SchemeID)
		e.writeString(n.Description)
		e.writeProvenance(n.Provenance)
	case *core.Document:
		e.writeInt(int(core.NodeKindDocument))
		e.writeID(n.Id)
		e.writeString(n.Title)
		e.writeString(n.SourcePath)
	case *core.Jurisdiction:
		e.writeInt(int(core.NodeKindJurisdiction))
		e.writeID(n.Id)
	default:
		return nil, fmt.Errorf("%w: unsupported node type %T", ErrSerializationFailed, node)
	}
	return e.bs, nil
}

// UnmarshalNode deserializes a graph node written by MarshalNode.
func UnmarshalNode(data []byte) (core.Node, error) {
	d := &decoder{bs: data}
	kind := core.NodeKind(d.readInt())
	if d.err != nil {
		return nil, d.err
	}

	var node core.Node
	switch kind {
	case core.NodeKindScheme:
		node = &core.Scheme{
			Id:            d.readID(),
			Name:          d.readString(),
			Domains:       d.readStrings(),
			Jurisdictions: d.readStrings(),
			CriterionIDs:  d.readIDs(),
			BenefitIDs:    d.readIDs(),
		}
	case core.NodeKindCriterion:
		c := &rules.Criterion{
			Id:       d.readID(),
			SchemeID: d.readID(),
		}
		c.Rule.Field = d.readString()
		c.Rule.Operator = rules.Operator(d.readInt())
		c.Rule.Value = readValue(d, 0)
		c.Rule.Required = d.readBool()
		c.Description = d.readString()
		if n := d.readLength(); n > 0 {
			c.Provenance = make([]core.Provenance, n)
			for i := range c.Provenance {
				c.Provenance[i] = d.readProvenance()
			}
		}
		node = c
	case core.NodeKindBenefit:
		node = &core.Benefit{
			Id:          d.readID(),
			SchemeID:    d.readID(),
			Description: d.readString(),
			Provenance:  d.readProvenance(),
		}
	case core.NodeKindDocument:
		node = &core.Document{
			Id:         d.readID(),
			Title:      d.readString(),
			SourcePath: d.readString(),
		}
	case core.NodeKindJurisdiction:
		node = &core.Jurisdiction{Id: d.readID()}
	default:
		return nil, fmt.Errorf("%w: unknown node kind %d", ErrSerializationFailed, kind)
	}

	if d.err != nil {
		return nil, d.err
	}
	return node, nil
}

// MarshalEdge serializes an edge.
func MarshalEdge(edge core.Edge) []byte {
	e := &encoder{}
	e.writeID(edge.Source)
	e.writeInt(int(edge.Relation))
	e.writeID(edge.Target)
	return e.bs
}

// UnmarshalEdge deserializes an edge.
func UnmarshalEdge(data []byte) (core.Edge, error) {
	d := &decoder{bs: data}
	edge := core.Edge{
		Source:   d.readID(),
		Relation: core.RelationKind(d.readInt()),
		Target:   d.readID(),
	}
	return edge, d.err
}

// MarshalChunk serializes a DocumentChunk including its vector.
func MarshalChunk(chunk *core.DocumentChunk) []byte {
	e := &encoder{}
	e.writeID(chunk.Id)
	e.writeID(chunk.DocumentID)
	e.writeInt(chunk.Page)
	e.writeString(chunk.Section)
	e.writeInt(chunk.Start)
	e.writeInt(chunk.End)
	e.writeString(chunk.Text)
	e.writeVector(chunk.Vector)
	return e.bs
}

// UnmarshalChunk deserializes a DocumentChunk.
func UnmarshalChunk(data []byte) (*core.DocumentChunk, error) {
	d := &decoder{bs: data}
	chunk := &core.DocumentChunk{
		Id:         d.readID(),
		DocumentID: d.readID(),
		Page:       d.readInt(),
		Section:    d.readString(),
		Start:      d.readInt(),
		End:        d.readInt(),
		Text:       d.readString(),
		Vector:     d.readVector(),
	}
	if d.err != nil {
		return nil, d.err
	}
	return chunk, nil
}

// MarshalDatasetInfo serializes dataset metadata.
func MarshalDatasetInfo(info *DatasetInfo) []byte {
	e := &encoder{}
	e.writeUint64(info.Generation)
	e.writeID(info.Version)
	e.writeInt(info.Nodes)
	e.writeInt(info.Edges)
	e.writeInt(info.Chunks)
	e.writeInt64(info.SavedAt.UnixMicro())
	return e.bs
}

// UnmarshalDatasetInfo deserializes dataset metadata.
func UnmarshalDatasetInfo(data []byte) (*DatasetInfo, error) {
	d := &decoder{bs: data}
	info := &DatasetInfo{
		Generation: d.readUint64(),
		Version:    d.readID(),
		Nodes:      d.readInt(),
		Edges:      d.readInt(),
		Chunks:     d.readInt(),
	}
	info.SavedAt = time.UnixMicro(d.readInt64()).UTC()
	if d.err != nil {
		return nil, d.err
	}
	return info, nil
}

// writeValue encodes a criterion value. Integers of every width are stored
// as int64 and floats as float64.
func writeValue(e *encoder, v any) error {
	switch x := v.(type) {
	case nil:
		e.writeByte(valueNil)
	case bool:
		e.writeByte(valueBool)
		e.writeBool(x)
	case int:
		writeInt(e, int64(x))
	case int8:
		writeInt(e, int64(x))
	case int16:
		writeInt(e, int64(x))
	case int32:
		writeInt(e, int64(x))
	case int64:
		writeInt(e, x)
	case uint:
		writeUint(e, uint64(x))
	case uint8:
		writeInt(e, int64(x))
	case uint16:
		writeInt(e, int64(x))
	case uint32:
		writeInt(e, int64(x))
	case uint64:
		writeUint(e, x)
	case float32:
		writeFloat(e, float64(x))
	case float64:
		writeFloat(e, x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			writeInt(e, i)
			return nil
		}
		f, err := x.Float64()
		if err != nil {
			return fmt.Errorf("%w: %q", ErrUnsupportedValue, x)
		}
		writeFloat(e, f)
	case string:
		e.writeByte(valueString)
		e.writeString(x)
	case []any:
		e.writeByte(valueList)
		e.writeInt(len(x))
		for _, elem := range x {
			if err := writeValue(e, elem); err != nil {
				return err
			}
		}
	case []string:
		e.writeByte(valueList)
		e.writeInt(len(x))
		for _, elem := range x {
			e.writeByte(valueString)
			e.writeString(elem)
		}
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
	return nil
}

func writeInt(e *encoder, v int64) {
	e.writeByte(valueInt)
	e.writeInt64(v)
}

func writeUint(e *encoder, v uint64) {
	if v > math.MaxInt64 {
		writeFloat(e, float64(v))
		return
	}
	writeInt(e, int64(v))
}

func writeFloat(e *encoder, v float64) {
	e.writeByte(valueFloat)
	e.writeFloat64(v)
}

// maxValueDepth bounds nesting of list values on decode.
const maxValueDepth = 8

func readValue(d *decoder, depth int) any {
	if depth > maxValueDepth {
		d.fail(ErrUnsupportedValue)
		return nil
	}
	switch tag := d.readByte(); tag {
	case valueNil:
		return nil
	case valueBool:
		return d.readBool()
	case valueInt:
		return d.readInt64()
	case valueFloat:
		return d.readFloat64()
	case valueString:
		return d.readString()
	case valueList:
		n := d.readLength()
		out := make([]any, n)
		for i := range out {
			out[i] = readValue(d, depth+1)
		}
		return out
	default:
		d.fail(fmt.Errorf("%w: tag %d", ErrUnsupportedValue, tag))
		return nil
	}
}
