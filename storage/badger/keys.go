package badger

import (
	"encoding/binary"
	"fmt"
)

// Key prefixes for different data types
const (
	batchRecordPrefix  = "batrec"
	vectorBlockPrefix  = "vecblk"
	resumeOffsetPrefix = "parres"
	vectorCountPrefix  = "parvec"
)

// makeBatchKey generates a key for a batch checkpoint record.
// Format: prefix:partition:startOffset
func makeBatchKey(partition string, startOffset int64) []byte {
	return makeOffsetKey(batchRecordPrefix, partition, startOffset)
}

// makeVectorBlockKey generates a key for a vector block.
// Format: prefix:partition:startOffset
func makeVectorBlockKey(partition string, startOffset int64) []byte {
	return makeOffsetKey(vectorBlockPrefix, partition, startOffset)
}

// makeOffsetKey builds a composite key whose offset component is encoded
// BigEndian so lexicographic iteration order matches offset order.
func makeOffsetKey(prefix, partition string, startOffset int64) []byte {
	head := fmt.Sprintf("%s:%s:", prefix, partition)
	buf := make([]byte, len(head)+8)
	offset := copy(buf, head)
	binary.BigEndian.PutUint64(buf[offset:], uint64(startOffset))
	return buf
}

// makePartitionPrefix generates the iteration prefix covering every key of a
// partition under the given type prefix.
func makePartitionPrefix(prefix, partition string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", prefix, partition))
}

// makeResumeOffsetKey generates the key for a partition's resume offset.
func makeResumeOffsetKey(partition string) []byte {
	return []byte(fmt.Sprintf("%s:%s", resumeOffsetPrefix, partition))
}

// makeVectorCountKey generates the key for a partition's vector count.
func makeVectorCountKey(partition string) []byte {
	return []byte(fmt.Sprintf("%s:%s", vectorCountPrefix, partition))
}

// encodeCounter serializes a counter value.
func encodeCounter(value int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(value))
	return buf
}

// decodeCounter deserializes a counter value.
func decodeCounter(data []byte) int64 {
	if len(data) != 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(data))
}
