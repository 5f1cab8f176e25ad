package model

// InfoEntry is one entry of Model.InfoDict: a scalar or string value
// together with the wire type name it was declared with (e.g. "int32_t" or
// "char[4]"). Unknown/non-primitive types are stored as raw bytes under
// Value so they round-trip even though this decoder cannot interpret them.
type InfoEntry struct {
	Type  string
	Value any
}

// InfoMultiEntry is one entry of Model.InfoMultiDict: a declared type plus
// the segmented value streams accumulated across 'M' records. Each
// continuation byte of 0 starts a new segment; a continuation byte of 1
// appends to the most recent segment.
type InfoMultiEntry struct {
	Type     string
	Segments [][]any
}

// ParamChange is one entry of Model.ChangedParameters: a parameter value
// observed at Timestamp during the data section.
type ParamChange struct {
	Timestamp uint64
	Name      string
	Value     any
}

// LogMessage is one entry of Model.LoggedMessages.
type LogMessage struct {
	LogLevel  uint8
	Timestamp uint64
	Text      string
}

// TaggedLogMessage is one entry of Model.LoggedMessagesTagged.
type TaggedLogMessage struct {
	LogLevel  uint8
	Tag       uint16
	Timestamp uint64
	Text      string
}

// Dropout is one entry of Model.Dropouts.
type Dropout struct {
	Timestamp  uint64
	DurationMs uint16
}
