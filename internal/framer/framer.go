// Package framer implements the buffered line-accumulation rules an AT
// modem response (or unsolicited notification) is framed with: a single
// writer builds up text with Begin/Add and flushes it to a Sink with
// EndAsReply or EndAsUnsol.
package framer

import (
	"fmt"
	"strings"
	"sync"
)

// Sink receives framed output. Replies and unsolicited notifications both
// flow through it; the caller distinguishes them only by call site.
type Sink func(text string)

// Framer accumulates one outgoing line at a time behind a mutex. Only one
// begin/end bracket may be open at a time; Begin blocks until any
// in-flight bracket closes, which is what guarantees unsolicited emissions
// never interleave with reply bytes (the single real requirement behind
// the mutex even though the modem's own scheduling model is single
// threaded).
type Framer struct {
	mu   sync.Mutex
	buf  strings.Builder
	sink Sink
	open bool
}

// New creates a Framer that flushes completed lines to sink.
func New(sink Sink) *Framer {
	return &Framer{sink: sink}
}

// Begin opens a new accumulation bracket, blocking if one is already open.
func (f *Framer) Begin() {
	f.mu.Lock()
	f.buf.Reset()
	f.open = true
}

// Add appends a formatted line to the open bracket. It panics if called
// outside a Begin/End bracket, mirroring vmodem's checkLock assertion
// style for catching programming errors early.
func (f *Framer) Add(format string, args ...any) {
	if !f.open {
		panic("framer: Add called without an open Begin")
	}
	fmt.Fprintf(&f.buf, format, args...)
}

// EndAsReply closes the bracket and flushes it as a command reply: unless
// the accumulated text already begins with one of the terminal prefixes
// ("> ", "OK", "ERROR", "+CME ERROR"), "\rOK" is appended first.
func (f *Framer) EndAsReply() {
	text := f.buf.String()
	if !hasReplyPrefix(text) {
		text += "\rOK"
	}
	f.flush(text)
}

// EndAsUnsol closes the bracket and flushes it as an unsolicited
// notification: sent as-is, followed by a bare "\r".
func (f *Framer) EndAsUnsol() {
	text := f.buf.String() + "\r"
	f.flush(text)
}

// Abort closes the bracket without flushing anything, for call paths that
// decide mid-handler there is nothing to send.
func (f *Framer) Abort() {
	f.open = false
	f.mu.Unlock()
}

func (f *Framer) flush(text string) {
	f.open = false
	sink := f.sink
	f.mu.Unlock()
	if sink != nil {
		sink(text)
	}
}

func hasReplyPrefix(text string) bool {
	for _, prefix := range []string{"> ", "OK", "ERROR", "+CME ERROR"} {
		if strings.HasPrefix(text, prefix) {
			return true
		}
	}
	return false
}
