// Package ulog provides a small surface over the decoder
// and encoder subpackages: parse a ULog byte stream into an in-memory Model,
// query it, and serialize it back out.
package ulog

import (
	"io"

	"github.com/px4go/ulog/decoder"
	"github.com/px4go/ulog/encoder"
	"github.com/px4go/ulog/model"
	"github.com/px4go/ulog/source"
)

// Model is the complete in-memory representation of one parsed ULog stream.
type Model = model.Model

// Dataset is the materialised columnar view of one subscription's data.
type Dataset = model.Dataset

// Option configures a parse. See WithMessageFilter and WithLossyStrings.
type Option = decoder.Option

// WithMessageFilter restricts data subscriptions to the named messages.
// Passing nil subscribes to every message (the default); passing an empty,
// non-nil slice suppresses all data subscriptions, yielding a
// definitions-only parse.
func WithMessageFilter(names []string) Option {
	return decoder.WithMessageFilter(names)
}

// WithLossyStrings makes invalid UTF-8 in string fields non-fatal: invalid
// bytes are dropped rather than causing the record to be treated as corrupt.
func WithLossyStrings() Option {
	return decoder.WithLossyStrings()
}

// Open parses src into a Model.
func Open(src source.Source, opts ...Option) (Model, error) {
	return decoder.Open(src, opts...)
}

// OpenReader parses an io.ReadSeeker into a Model.
func OpenReader(r io.ReadSeeker, opts ...Option) (Model, error) {
	return decoder.Open(source.NewReadSeeker(r), opts...)
}

// OpenBytes parses an in-memory byte slice into a Model. data is not copied;
// the caller must not mutate it while the returned Model may still reference
// it indirectly (it does not: materialisation copies every value out).
func OpenBytes(data []byte, opts ...Option) (Model, error) {
	return decoder.Open(source.NewBuffer(data), opts...)
}

// Write serializes m to w in ULog wire format.
func Write(m Model, w io.Writer) error {
	return encoder.Write(m, w)
}
