package sms

import (
	"strconv"
	"testing"

	"github.com/basebandsim/basebandsim/internal/relay"
	"github.com/basebandsim/basebandsim/internal/smscodec"
)

type fakeCodec struct {
	sub smscodec.Submission
	err error
}

func (f fakeCodec) DecodeSubmit(hexPDU string) (smscodec.Submission, error) {
	return f.sub, f.err
}

func (f fakeCodec) EncodeDeliver(from, text string) ([]string, error) {
	return []string{from + ":" + text}, nil
}

func TestStripEscapeRemovesTrailingCtrlZ(t *testing.T) {
	if got := StripEscape("hello\x1a"); got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
	if got := StripEscape("hello"); got != "hello" {
		t.Fatalf("got %q, want unchanged %q", got, "hello")
	}
}

func TestResolveRoutesToLocalPeer(t *testing.T) {
	receiver := strconv.Itoa(relay.FromModem(5554, 2))
	codec := fakeCodec{sub: smscodec.Submission{Receiver: receiver, Text: "hi", Complete: true}}

	sub, route, err := Resolve(codec, "deadbeef", 0, 5554)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sub.Complete || sub.Text != "hi" {
		t.Fatalf("unexpected submission: %+v", sub)
	}
	if !route.Local || route.PeerID != 2 {
		t.Fatalf("got %+v, want a local route to peer 2", route)
	}
}

func TestResolveRoutesToRemotePort(t *testing.T) {
	receiver := strconv.Itoa(relay.FromModem(5556, 1))
	codec := fakeCodec{sub: smscodec.Submission{Receiver: receiver, Text: "hi", Complete: true}}

	_, route, err := Resolve(codec, "deadbeef", 0, 5554)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if route.Local || route.RemotePort != 5556 || route.RemoteID != 1 {
		t.Fatalf("got %+v, want a remote route to port 5556 instance 1", route)
	}
}

func TestResolvePropagatesDecodeError(t *testing.T) {
	codec := fakeCodec{err: smscodec.ErrMissingReceiver}
	if _, _, err := Resolve(codec, "deadbeef", 0, 5554); err != smscodec.ErrMissingReceiver {
		t.Fatalf("got %v, want ErrMissingReceiver", err)
	}
}
