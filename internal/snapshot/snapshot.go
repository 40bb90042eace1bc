// Package snapshot implements the call-table-only save/load format
// (§4.9): a version byte followed by a call count and one fixed-shape
// record per call. Timers and remote-call bindings are never part of the
// snapshot — reloading an in-flight DIALING call leaves it stuck at
// whatever state was saved, by design.
package snapshot

import (
	"bytes"
	"encoding/binary"

	"github.com/basebandsim/basebandsim/internal/voicecall"
	"github.com/pkg/errors"
)

// Version is the save-format version byte this build writes and the only
// one it accepts on load (§4.9: "mismatched versions fail the load").
const Version = 1

// CallRecord is the persisted shape of one call: {dir, state, mode,
// multi, number}.
type CallRecord struct {
	Dir    voicecall.Direction
	State  voicecall.State
	Mode   voicecall.Mode
	Multi  bool
	Number string
}

// Save serializes the call table into the on-disk byte form.
func Save(calls []*voicecall.Call) []byte {
	var buf bytes.Buffer
	buf.WriteByte(Version)
	buf.WriteByte(byte(len(calls)))
	for _, c := range calls {
		buf.WriteByte(byte(c.Dir))
		buf.WriteByte(byte(c.State))
		buf.WriteByte(byte(c.Mode))
		writeBool(&buf, c.Multi)
		writeString(&buf, c.Number)
	}
	return buf.Bytes()
}

// Load parses a snapshot previously produced by Save into CallRecords.
// The caller is responsible for discarding any existing call table
// (freeing timers and outstanding remote calls) before applying the
// result — snapshot itself has no access to those collaborators.
func Load(data []byte) ([]CallRecord, error) {
	if len(data) < 2 {
		return nil, errors.Wrap(ErrTruncated, "snapshot")
	}
	r := bytes.NewReader(data)
	version, _ := r.ReadByte()
	if version != Version {
		return nil, ErrVersionMismatch
	}
	count, _ := r.ReadByte()
	records := make([]CallRecord, 0, count)
	for i := 0; i < int(count); i++ {
		var dir, state, mode, multi byte
		var err error
		if dir, err = r.ReadByte(); err != nil {
			return nil, errors.Wrap(ErrTruncated, "snapshot: reading dir")
		}
		if state, err = r.ReadByte(); err != nil {
			return nil, errors.Wrap(ErrTruncated, "snapshot: reading state")
		}
		if mode, err = r.ReadByte(); err != nil {
			return nil, errors.Wrap(ErrTruncated, "snapshot: reading mode")
		}
		if multi, err = r.ReadByte(); err != nil {
			return nil, errors.Wrap(ErrTruncated, "snapshot: reading multi")
		}
		number, err := readString(r)
		if err != nil {
			return nil, errors.Wrap(ErrTruncated, "snapshot: reading number")
		}
		records = append(records, CallRecord{
			Dir:    voicecall.Direction(dir),
			State:  voicecall.State(state),
			Mode:   voicecall.Mode(mode),
			Multi:  multi != 0,
			Number: number,
		})
	}
	return records, nil
}

func writeBool(buf *bytes.Buffer, b bool) {
	if b {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

func writeString(buf *bytes.Buffer, s string) {
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(s)))
	buf.Write(lenBuf[:])
	buf.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	var lenBuf [2]byte
	if _, err := r.Read(lenBuf[:]); err != nil {
		return "", err
	}
	n := binary.BigEndian.Uint16(lenBuf[:])
	b := make([]byte, n)
	if _, err := r.Read(b); err != nil && n > 0 {
		return "", err
	}
	return string(b), nil
}

// ErrVersionMismatch and ErrTruncated are the two ways Load can fail.
var (
	ErrVersionMismatch = errors.New("snapshot: version mismatch")
	ErrTruncated       = errors.New("snapshot: truncated data")
)
