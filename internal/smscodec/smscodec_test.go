package smscodec

import (
	"testing"

	"github.com/pkg/errors"
)

func TestDecodeSubmitRejectsInvalidHex(t *testing.T) {
	c := New()
	_, err := c.DecodeSubmit("not-hex")
	if err == nil {
		t.Fatal("expected an error for non-hex input")
	}
	if errors.Cause(err) != ErrMalformedPDU {
		t.Fatalf("got cause %v, want ErrMalformedPDU", errors.Cause(err))
	}
}

func TestDecodeSubmitRejectsTruncatedPDU(t *testing.T) {
	c := New()
	// Valid hex, but far too short to be a well-formed SUBMIT TPDU.
	_, err := c.DecodeSubmit("00")
	if err == nil {
		t.Fatal("expected an error for a truncated PDU")
	}
	if errors.Cause(err) != ErrMalformedPDU {
		t.Fatalf("got cause %v, want ErrMalformedPDU", errors.Cause(err))
	}
}

func TestEncodeDeliverProducesHexTPDUs(t *testing.T) {
	c := New()
	pdus, err := c.EncodeDeliver("15551234567", "hello world")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pdus) == 0 {
		t.Fatal("expected at least one encoded TPDU")
	}
	for _, p := range pdus {
		if p == "" {
			t.Fatal("encoded TPDU must not be empty")
		}
		for _, r := range p {
			isHex := (r >= '0' && r <= '9') || (r >= 'A' && r <= 'F') || (r >= 'a' && r <= 'f')
			if !isHex {
				t.Fatalf("encoded TPDU %q contains a non-hex character %q", p, r)
			}
		}
	}
}

func TestEncodeDeliverSplitsLongTextIntoMultipleParts(t *testing.T) {
	c := New()
	long := make([]byte, 400)
	for i := range long {
		long[i] = 'a'
	}
	pdus, err := c.EncodeDeliver("15551234567", string(long))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pdus) < 2 {
		t.Fatalf("got %d parts, want more than one for a 400-byte message", len(pdus))
	}
}
