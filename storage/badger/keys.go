package badger

import (
	"encoding/binary"
)

// Key prefixes for different data types
const (
	datasetPrefix  = "ds:"
	datasetMetaKey = "dsmeta"
	datasetGenSeq  = "dsgenseq"
	nodeSegment    = 'n'
	edgeSegment    = 'e'
	chunkSegment   = 'c'
)

// makeGenerationPrefix generates the prefix shared by every key of one
// saved dataset generation.
// Format: prefix:generation
func makeGenerationPrefix(generation uint64) []byte {
	prefixBytes := []byte(datasetPrefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], generation)
	return buf
}

// makeSegmentPrefix generates the prefix of one record type within a generation.
// Format: prefix:generation:segment
func makeSegmentPrefix(generation uint64, segment byte) []byte {
	return append(makeGenerationPrefix(generation), segment)
}

// makeRecordKey generates the key of the position'th record of a segment.
// Format: prefix:generation:segment:position
// Written in BigEndian order so iteration returns records in saved order.
func makeRecordKey(generation uint64, segment byte, position int) []byte {
	buf := makeSegmentPrefix(generation, segment)
	return binary.BigEndian.AppendUint64(buf, uint64(position))
}
