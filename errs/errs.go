// Package errs collects the sentinel errors returned across the ulog
// packages so callers can match on them with errors.Is.
package errs

import "errors"

var (
	// ErrInvalidHeader is returned when the 16-byte file header is short or
	// its 7-byte magic does not match the expected ULog signature.
	ErrInvalidHeader = errors.New("ulog: invalid file header")

	// ErrUnknownIncompatFlag is returned when a bit other than bit 0 of
	// incompat_flags[0] is set. The decoder cannot safely ignore an unknown
	// incompatible feature, so this is fatal.
	ErrUnknownIncompatFlag = errors.New("ulog: unknown incompat flag bit set")

	// ErrNotFound is returned by Model.GetDataset when no dataset matches
	// the requested (name, multi_id) pair.
	ErrNotFound = errors.New("ulog: dataset not found")

	// ErrUnknownType is returned when a format declaration references a
	// field type that is neither a primitive nor a previously declared
	// format name.
	ErrUnknownType = errors.New("ulog: unknown field type")

	// ErrUnsupportedTimestampKind is returned when a subscription's
	// timestamp field resolves to something other than uint64_t. ULog only
	// ever emits uint64_t timestamps; any other width is treated as a
	// corrupt subscription rather than guessed at.
	ErrUnsupportedTimestampKind = errors.New("ulog: timestamp field is not uint64_t")

	// ErrCyclicFormat is returned when expanding a format declaration
	// recurses back into a format already on the expansion stack.
	ErrCyclicFormat = errors.New("ulog: cyclic format declaration")

	// ErrMalformedFormat is returned when a format declaration's text blob
	// cannot be parsed into a name and field list.
	ErrMalformedFormat = errors.New("ulog: malformed format declaration")

	// ErrParameterType is returned by the encoder when an in-memory
	// parameter value cannot be represented in the wire format.
	ErrParameterType = errors.New("ulog: parameter value has unrepresentable type")

	// ErrShortRead names the short-read condition. No package in this module
	// returns it: source.Source reports a short read as io.EOF or
	// io.ErrUnexpectedEOF, and the decoder treats that as a clean end of
	// stream, never surfacing it to callers of Open.
	ErrShortRead = errors.New("ulog: short read")
)
