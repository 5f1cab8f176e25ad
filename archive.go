package ulog

import (
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// OpenZstd decompresses a zstd-compressed ULog stream fully into memory and
// parses it. Ground-control tooling commonly stores downloaded logs
// zstd-compressed to cut transfer bandwidth.
func OpenZstd(r io.Reader, opts ...Option) (Model, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return Model{}, err
	}
	defer dec.Close()

	data, err := io.ReadAll(dec)
	if err != nil {
		return Model{}, err
	}

	return OpenBytes(data, opts...)
}

// WriteZstd serializes m and zstd-compresses the result to w.
func WriteZstd(m Model, w io.Writer) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}

	if err := Write(m, enc); err != nil {
		_ = enc.Close()
		return err
	}

	return enc.Close()
}

// OpenLZ4 decompresses an lz4-framed ULog stream fully into memory and
// parses it.
func OpenLZ4(r io.Reader, opts ...Option) (Model, error) {
	data, err := io.ReadAll(lz4.NewReader(r))
	if err != nil {
		return Model{}, err
	}

	return OpenBytes(data, opts...)
}

// WriteLZ4 serializes m and lz4-compresses the result to w.
func WriteLZ4(m Model, w io.Writer) error {
	zw := lz4.NewWriter(w)

	if err := Write(m, zw); err != nil {
		_ = zw.Close()
		return err
	}

	return zw.Close()
}
