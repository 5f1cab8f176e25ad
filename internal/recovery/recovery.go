// Package recovery implements the sync-marker scan the decoder falls back
// to when a record header looks malformed or names a tag it doesn't
// recognize. It knows nothing about ULog semantics beyond the marker bytes
// and a source to scan; the decoder decides when to invoke it and what to
// do with the result.
package recovery

import (
	"bytes"

	"github.com/px4go/ulog/section"
	"github.com/px4go/ulog/source"
)

// chunkSize is the scan granularity; chosen to keep each read small while
// amortizing the per-call overhead of Source.ReadExact.
const chunkSize = 512

const markerLen = len(section.SyncMarker)

// ScanForward scans src forward from its current position for
// section.SyncMarker, reading in chunkSize-byte chunks with a
// (markerLen-1)-byte overlap across chunk boundaries so a marker straddling
// a boundary is never missed.
//
// On a match, src is left positioned immediately after the marker and
// found is true. If the scan reaches the end of the stream without a
// match, eof is true and src's position is undefined relative to the
// caller (the caller should treat this as end of stream and stop reading).
func ScanForward(src source.Source) (found bool, eof bool, err error) {
	return scan(src, -1)
}

// ScanBounded behaves like ScanForward but gives up (treating it the same
// as reaching end of stream) after at most limit bytes have been scanned
// from the starting position. It is used for the corrupt-header recovery
// path, which only searches the remainder of the current payload region
// rather than the whole rest of the file.
func ScanBounded(src source.Source, limit int64) (found bool, eof bool, err error) {
	return scan(src, limit)
}

func scan(src source.Source, limit int64) (found bool, eof bool, err error) {
	var tail []byte

	var scanned int64

	for {
		if limit >= 0 && scanned >= limit {
			return false, true, nil
		}

		readStart := src.Tell()

		toRead := chunkSize
		if limit >= 0 {
			remaining := limit - scanned
			if remaining < int64(toRead) {
				toRead = int(remaining)
			}
		}

		if toRead <= 0 {
			return false, true, nil
		}

		chunk, rerr := src.ReadExact(toRead)
		scanned += int64(len(chunk))

		if len(chunk) == 0 {
			return false, true, nil
		}

		windowStart := readStart - int64(len(tail))
		window := make([]byte, 0, len(tail)+len(chunk))
		window = append(window, tail...)
		window = append(window, chunk...)

		if idx := bytes.Index(window, section.SyncMarker[:]); idx != -1 {
			end := windowStart + int64(idx) + int64(markerLen)

			if _, serr := src.Seek(end, source.SeekStart); serr != nil {
				return false, false, serr
			}

			return true, false, nil
		}

		if rerr != nil {
			return false, true, nil
		}

		if len(chunk) < markerLen-1 {
			tail = window
		} else {
			tail = append([]byte{}, chunk[len(chunk)-(markerLen-1):]...)
		}
	}
}
