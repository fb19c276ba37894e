// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	slice54O7jmEhhBwx4rd9Zs407wΞΞ = ord.NewSliceSer[float32](varint.Float32)
	sliceNaUU52fM2aYRyWOPhifZhgΞΞ = ord.NewSliceSer[[]float32](slice54O7jmEhhBwx4rd9Zs407wΞΞ)
)

var BatchStatusMUS = batchStatusMUS{}

type batchStatusMUS struct{}

func (s batchStatusMUS) Marshal(v BatchStatus, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s batchStatusMUS) Unmarshal(bs []byte) (v BatchStatus, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = BatchStatus(tmp)
	return
}

func (s batchStatusMUS) Size(v BatchStatus) (size int) {
	return varint.Int.Size(int(v))
}

func (s batchStatusMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var BatchRecordMUS = batchRecordMUS{}

type batchRecordMUS struct{}

func (s batchRecordMUS) Marshal(v BatchRecord, bs []byte) (n int) {
	n = ord.String.Marshal(v.Partition, bs)
	n += varint.Int64.Marshal(v.StartOffset, bs[n:])
	n += varint.Int.Marshal(v.BatchSize, bs[n:])
	n += BatchStatusMUS.Marshal(v.Status, bs[n:])
	n += varint.Int.Marshal(v.RetryCount, bs[n:])
	n += ord.String.Marshal(v.ErrorMessage, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.CreatedAt, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.CompletedAt, bs[n:])
}

func (s batchRecordMUS) Unmarshal(bs []byte) (v BatchRecord, n int, err error) {
	v.Partition, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.StartOffset, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.BatchSize, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Status, n1, err = BatchStatusMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.RetryCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ErrorMessage, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CompletedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s batchRecordMUS) Size(v BatchRecord) (size int) {
	size = ord.String.Size(v.Partition)
	size += varint.Int64.Size(v.StartOffset)
	size += varint.Int.Size(v.BatchSize)
	size += BatchStatusMUS.Size(v.Status)
	size += varint.Int.Size(v.RetryCount)
	size += ord.String.Size(v.ErrorMessage)
	size += raw.TimeUnixMicro.Size(v.CreatedAt)
	return size + raw.TimeUnixMicro.Size(v.CompletedAt)
}

func (s batchRecordMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = BatchStatusMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

var VectorBlockMUS = vectorBlockMUS{}

type vectorBlockMUS struct{}

func (s vectorBlockMUS) Marshal(v VectorBlock, bs []byte) (n int) {
	n = ord.String.Marshal(v.Partition, bs)
	n += varint.Int64.Marshal(v.StartOffset, bs[n:])
	n += sliceNaUU52fM2aYRyWOPhifZhgΞΞ.Marshal(v.Vectors, bs[n:])
	n += varint.Uint64.Marshal(v.Checksum, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.CreatedAt, bs[n:])
}

func (s vectorBlockMUS) Unmarshal(bs []byte) (v VectorBlock, n int, err error) {
	v.Partition, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.StartOffset, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vectors, n1, err = sliceNaUU52fM2aYRyWOPhifZhgΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Checksum, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s vectorBlockMUS) Size(v VectorBlock) (size int) {
	size = ord.String.Size(v.Partition)
	size += varint.Int64.Size(v.StartOffset)
	size += sliceNaUU52fM2aYRyWOPhifZhgΞΞ.Size(v.Vectors)
	size += varint.Uint64.Size(v.Checksum)
	return size + raw.TimeUnixMicro.Size(v.CreatedAt)
}

func (s vectorBlockMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceNaUU52fM2aYRyWOPhifZhgΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Uint64.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}
