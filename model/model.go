// Package model holds the in-memory object graph a ULog decoder produces
// and an encoder consumes: the top-level Model, its Dataset collection, and
// the small value types (info entries, parameter changes, log messages,
// dropouts) that round out a parsed log.
package model

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/px4go/ulog/errs"
	"github.com/px4go/ulog/registry"
)

// Model is the complete in-memory representation of one logical ULog
// stream, including any appended regions stitched in by the decoder.
type Model struct {
	StartTimestamp uint64 // microseconds, arbitrary epoch
	LastTimestamp  uint64

	FileVersion   uint8
	CompatFlags   [8]byte
	IncompatFlags [8]byte
	// AppendedOffsets are the start offsets of appended regions as declared
	// by the flag-bits record. Reset to nil by the encoder: the serialiser
	// always produces a contiguous log.
	AppendedOffsets []uint64

	InfoDict      map[string]InfoEntry
	InfoMultiDict map[string]InfoMultiEntry

	InitialParameters map[string]any
	// DefaultParameters maps bit index (0 = system, 1 = current setup) to
	// the set of name/value pairs declared for that bit.
	DefaultParameters map[int]map[string]any
	ChangedParameters []ParamChange

	MessageFormats map[string]registry.FormatDecl

	LoggedMessages       []LogMessage
	LoggedMessagesTagged map[uint16][]TaggedLogMessage

	Dropouts []Dropout
	DataList []Dataset

	// SyncCount is the number of sync markers observed while parsing. Reset
	// to 0 by the encoder, since the serialiser never emits sync markers.
	SyncCount int
	// FileCorrupt latches true if any recovery, corrupt-packet heuristic, or
	// short read mid-record was encountered while parsing.
	FileCorrupt bool
}

// New returns an empty Model with its maps initialised, ready to be
// populated by a decoder or built up programmatically before encoding.
func New() Model {
	return Model{
		InfoDict:             make(map[string]InfoEntry),
		InfoMultiDict:        make(map[string]InfoMultiEntry),
		InitialParameters:    make(map[string]any),
		DefaultParameters:    make(map[int]map[string]any),
		MessageFormats:       make(map[string]registry.FormatDecl),
		LoggedMessagesTagged: make(map[uint16][]TaggedLogMessage),
	}
}

// SortDataList sorts DataList by (Name, MultiID) ascending, the order the
// decoder's materialiser and the public API both guarantee.
func (m *Model) SortDataList() {
	sort.Slice(m.DataList, func(i, j int) bool {
		a, b := m.DataList[i], m.DataList[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}

		return a.MultiID < b.MultiID
	})
}

// GetDataset returns the Dataset matching (name, multiID), or
// errs.ErrNotFound if none matches.
func (m Model) GetDataset(name string, multiID uint8) (Dataset, error) {
	for _, d := range m.DataList {
		if d.Name == name && d.MultiID == multiID {
			return d, nil
		}
	}

	return Dataset{}, fmt.Errorf("%w: %s[%d]", errs.ErrNotFound, name, multiID)
}

// GetVersionInfo decodes the packed (major, minor, patch, type) version
// tuple stored under key in InfoDict. ok is false if key is absent or its
// value is not a uint32.
//
// Type encodes release maturity: >=0 development, >=64 alpha, >=128 beta,
// >=192 RC, ==255 release.
func (m Model) GetVersionInfo(key string) (major, minor, patch, typ uint8, ok bool) {
	entry, present := m.InfoDict[key]
	if !present {
		return 0, 0, 0, 0, false
	}

	val, isUint32 := entry.Value.(uint32)
	if !isUint32 {
		return 0, 0, 0, 0, false
	}

	return uint8(val >> 24), uint8(val >> 16), uint8(val >> 8), uint8(val), true
}

// GetVersionInfoStr renders the version tuple under key as "vMAJOR.MINOR.PATCH"
// with a maturity suffix, e.g. "v1.2.3 (RC)". It returns ok=false if the key
// is absent or names a development build (type < 64), matching the
// reference tool's behavior of only labeling non-development builds.
func (m Model) GetVersionInfoStr(key string) (string, bool) {
	major, minor, patch, typ, ok := m.GetVersionInfo(key)
	if !ok || typ < 64 {
		return "", false
	}

	suffix := ""

	switch {
	case typ < 128:
		suffix = " (alpha)"
	case typ < 192:
		suffix = " (beta)"
	case typ < 255:
		suffix = " (RC)"
	}

	return fmt.Sprintf("v%d.%d.%d%s", major, minor, patch, suffix), true
}

// Equal reports whether m and other are structurally equal, except for the
// three fields the encoder deliberately does not reproduce on write:
// SyncCount (reset to 0), AppendedOffsets (reset to empty), and bit 0 of
// IncompatFlags[0] (cleared). This is the equality used by the round-trip
// test: parse, write, reparse, compare.
func (m Model) Equal(other Model) bool {
	a, b := m, other

	a.SyncCount, b.SyncCount = 0, 0
	a.AppendedOffsets, b.AppendedOffsets = nil, nil
	a.IncompatFlags[0] &^= 0x01
	b.IncompatFlags[0] &^= 0x01

	return reflect.DeepEqual(a, b)
}
