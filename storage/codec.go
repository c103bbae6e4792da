package storage

import (
	"fmt"
	"slices"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/yojana/core"
)

// encoder appends mus-encoded primitives to a buffer.
type encoder struct {
	bs []byte
}

func (e *encoder) grow(n int) []byte {
	l := len(e.bs)
	e.bs = slices.Grow(e.bs, n)[:l+n]
	return e.bs[l:]
}

func (e *encoder) writeByte(v byte) {
	e.grow(1)[0] = v
}

func (e *encoder) writeString(v string) {
	ord.String.Marshal(v, e.grow(ord.String.Size(v)))
}

func (e *encoder) writeBool(v bool) {
	ord.Bool.Marshal(v, e.grow(ord.Bool.Size(v)))
}

func (e *encoder) writeInt(v int) {
	e.writeInt64(int64(v))
}

func (e *encoder) writeInt64(v int64) {
	varint.Int64.Marshal(v, e.grow(varint.Int64.Size(v)))
}

func (e *encoder) writeUint64(v uint64) {
	varint.Uint64.Marshal(v, e.grow(varint.Uint64.Size(v)))
}

func (e *encoder) writeFloat64(v float64) {
	raw.Float64.Marshal(v, e.grow(raw.Float64.Size(v)))
}

func (e *encoder) writeID(v core.ID) {
	e.writeString(string(v))
}

func (e *encoder) writeIDs(v []core.ID) {
	e.writeInt(len(v))
	for _, id := range v {
		e.writeID(id)
	}
}

func (e *encoder) writeStrings(v []string) {
	e.writeInt(len(v))
	for _, s := range v {
		e.writeString(s)
	}
}

func (e *encoder) writeVector(v []float32) {
	e.writeInt(len(v))
	for _, x := range v {
		raw.Float32.Marshal(x, e.grow(raw.Float32.Size(x)))
	}
}

func (e *encoder) writeProvenance(p core.Provenance) {
	e.writeID(p.DocumentID)
	e.writeInt(p.Page)
	e.writeString(p.Section)
}

// decoder reads mus-encoded primitives. The first error sticks; later reads
// return zero values so callers check err once at the end.
type decoder struct {
	bs  []byte
	err error
}

func (d *decoder) fail(err error) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
}

func (d *decoder) readByte() byte {
	if d.err != nil {
		return 0
	}
	if len(d.bs) == 0 {
		d.fail(ErrTruncatedData)
		return 0
	}
	v := d.bs[0]
	d.bs = d.bs[1:]
	return v
}

func (d *decoder) readString() string {
	if d.err != nil {
		return ""
	}
	v, n, err := ord.String.Unmarshal(d.bs)
	if err != nil {
		d.fail(err)
		return ""
	}
	d.bs = d.bs[n:]
	return v
}

func (d *decoder) readBool() bool {
	if d.err != nil {
		return false
	}
	v, n, err := ord.Bool.Unmarshal(d.bs)
	if err != nil {
		d.fail(err)
		return false
	}
	d.bs = d.bs[n:]
	return v
}

func (d *decoder) readInt64() int64 {
	if d.err != nil {
		return 0
	}
	v, n, err := varint.Int64.Unmarshal(d.bs)
	if err != nil {
		d.fail(err)
		return 0
	}
	d.bs = d.bs[n:]
	return v
}

func (d *decoder) readInt() int {
	return int(d.readInt64())
}

func (d *decoder) readUint64() uint64 {
	if d.err != nil {
		return 0
	}
	v, n, err := varint.Uint64.Unmarshal(d.bs)
	if err != nil {
		d.fail(err)
		return 0
	}
	d.bs = d.bs[n:]
	return v
}

func (d *decoder) readFloat64() float64 {
	if d.err != nil {
		return 0
	}
	v, n, err := raw.Float64.Unmarshal(d.bs)
	if err != nil {
		d.fail(err)
		return 0
	}
	d.bs = d.bs[n:]
	return v
}

// length reads a slice length and rejects values the remaining input cannot hold.
func (d *decoder) readLength() int {
	n := d.readInt()
	if d.err != nil {
		return 0
	}
	if n < 0 || n > len(d.bs) {
		d.fail(ErrTruncatedData)
		return 0
	}
	return n
}

func (d *decoder) readID() core.ID {
	return core.ID(d.readString())
}

func (d *decoder) readIDs() []core.ID {
	n := d.readLength()
	if n == 0 {
		return nil
	}
	out := make([]core.ID, n)
	for i := range out {
		out[i] = d.readID()
	}
	return out
}

func (d *decoder) readStrings() []string {
	n := d.readLength()
	if n == 0 {
		return nil
	}
	out := make([]string, n)
	for i := range out {
		out[i] = d.readString()
	}
	return out
}

func (d *decoder) readVector() []float32 {
	n := d.readLength()
	if n == 0 {
		return nil
	}
	out := make([]float32, n)
	for i := range out {
		if d.err != nil {
			return nil
		}
		v, m, err := raw.Float32.Unmarshal(d.bs)
		if err != nil {
			d.fail(err)
			return nil
		}
		d.bs = d.bs[m:]
		out[i] = v
	}
	return out
}

func (d *decoder) readProvenance() core.Provenance {
	return core.Provenance{
		DocumentID: d.readID(),
		Page:       d.readInt(),
		Section:    d.readString(),
	}
}
