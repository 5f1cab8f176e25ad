// Package decoder implements the ULog state machine: it drives the
// definitions block, the data block (and any appended continuations of
// it), and materialises the accumulated subscriptions into a model.Model.
package decoder

import (
	"github.com/px4go/ulog/errs"
	"github.com/px4go/ulog/model"
	"github.com/px4go/ulog/registry"
	"github.com/px4go/ulog/section"
	"github.com/px4go/ulog/source"
)

// Decoder parses a single ULog stream from a source.Source into a
// model.Model.
//
// Note: a Decoder is not reusable; call Decode at most once.
type Decoder struct {
	src    source.Source
	cfg    *config
	header section.FileHeader
}

// New validates the 16-byte file header and returns a Decoder ready to
// Decode the rest of src.
func New(src source.Source, opts ...Option) (*Decoder, error) {
	cfg := newConfig(opts...)

	headerBytes, err := src.ReadExact(section.FileHeaderSize)
	if err != nil {
		return nil, errs.ErrInvalidHeader
	}

	header, err := section.ParseFileHeader(headerBytes)
	if err != nil {
		return nil, err
	}

	return &Decoder{src: src, cfg: cfg, header: header}, nil
}

// Decode runs the full parse: definitions, data (and appended regions),
// then materialisation. A returned error is only non-nil for the fatal
// cases (invalid header, an unknown incompatible flag bit); every other
// form of corruption or truncation is absorbed into the returned model's
// FileCorrupt flag and the model is still usable.
func (d *Decoder) Decode() (model.Model, error) {
	m := model.New()
	m.FileVersion = d.header.Version
	m.StartTimestamp = d.header.StartTimestamp
	m.LastTimestamp = d.header.StartTimestamp

	state := &parseState{
		model:       &m,
		registry:    registry.New(),
		cfg:         d.cfg,
		subs:        make(map[uint16]*subscription),
		filteredIDs: make(map[uint16]bool),
		missingIDs:  make(map[uint16]bool),
	}

	flagBits, err := parseDefinitions(d.src, state)
	if err != nil {
		return m, err
	}

	if err := parseDataSections(d.src, state, flagBits); err != nil {
		return m, err
	}

	materialize(state)
	m.SortDataList()

	return m, nil
}

// Open parses the whole of src in one call: equivalent to calling New
// followed by Decode.
func Open(src source.Source, opts ...Option) (model.Model, error) {
	d, err := New(src, opts...)
	if err != nil {
		return model.Model{}, err
	}

	return d.Decode()
}

// parseState is the mutable state threaded through the definitions and
// data parsers for the duration of one Decode call.
type parseState struct {
	model    *model.Model
	registry *registry.Registry
	cfg      *config

	subs        map[uint16]*subscription
	filteredIDs map[uint16]bool
	missingIDs  map[uint16]bool
}
