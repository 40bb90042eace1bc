// Package smscodec implements spec.md's "SMS codec (PDU ↔ hex ↔
// text/address decoding) and the multipart reassembler" external
// collaborator (§1) against the real github.com/warthog618/sms codec,
// the same library warthog618-modem's gsm package uses host-side
// (gsm.go's SendSMSPDU, via sms/encoding/pdumode) for the opposite
// direction. basebandsim sits on the network side of that conversation:
// it decodes an incoming SMS-SUBMIT PDU from the console and encodes the
// SMS-DELIVER PDU(s) a peer instance receives.
package smscodec

import (
	"encoding/hex"

	"github.com/pkg/errors"
	"github.com/warthog618/sms"
	"github.com/warthog618/sms/encoding/pdumode"
	"github.com/warthog618/sms/encoding/tpdu"
)

// Submission is a decoded SMS-SUBMIT: the receiver address and the
// reassembled text, once every concatenated part has arrived.
type Submission struct {
	Receiver string
	Text     string
	// Complete is false while waiting on further concatenated parts.
	Complete bool
}

// ErrMalformedPDU and ErrMissingReceiver correspond to spec.md §4.6's two
// submit-path failure replies.
var (
	ErrMalformedPDU    = errors.New("smscodec: malformed submit PDU")
	ErrMissingReceiver = errors.New("smscodec: missing receiver address")
)

// Codec is the narrow collaborator interface the SMS submission
// component (internal/sms) depends on.
type Codec interface {
	// DecodeSubmit parses a hex-encoded SMS-SUBMIT TPDU (the +CMGS body,
	// with any trailing 0x1A already stripped) and reassembles it with any
	// prior parts of the same concatenated message.
	DecodeSubmit(hexPDU string) (Submission, error)
	// EncodeDeliver builds the SMS-DELIVER TPDU(s) a receiving instance
	// should present as +CMT, given the originating address and text.
	EncodeDeliver(from, text string) ([]string, error)
}

// warthogCodec is the Codec backed by github.com/warthog618/sms.
type warthogCodec struct {
	reassembler *sms.Decoder
}

// New builds a Codec with a fresh multipart reassembler.
func New() Codec {
	return &warthogCodec{reassembler: sms.NewDecoder(nil)}
}

func (c *warthogCodec) DecodeSubmit(hexPDU string) (Submission, error) {
	raw, err := hex.DecodeString(hexPDU)
	if err != nil {
		return Submission{}, errors.Wrap(ErrMalformedPDU, err.Error())
	}
	pdu, err := tpdu.UnmarshalSubmit(raw)
	if err != nil {
		return Submission{}, errors.Wrap(ErrMalformedPDU, err.Error())
	}
	receiver := pdu.DA.Number
	if receiver == "" {
		return Submission{}, ErrMissingReceiver
	}
	msg, err := c.reassembler.AddTPDU(pdu)
	if err != nil {
		return Submission{Receiver: receiver}, nil
	}
	return Submission{Receiver: receiver, Text: msg.Text(), Complete: true}, nil
}

func (c *warthogCodec) EncodeDeliver(from, text string) ([]string, error) {
	tpdus, err := sms.Encode([]byte(text), sms.To(from), sms.AsDeliver)
	if err != nil {
		return nil, errors.Wrap(err, "smscodec: encoding deliver")
	}
	out := make([]string, 0, len(tpdus))
	for _, t := range tpdus {
		b, err := t.MarshalBinary()
		if err != nil {
			return nil, errors.Wrap(err, "smscodec: marshaling deliver tpdu")
		}
		p := pdumode.PDU{TPDU: b}
		s, err := p.MarshalHexString()
		if err != nil {
			return nil, errors.Wrap(err, "smscodec: framing deliver pdu")
		}
		out = append(out, s)
	}
	return out, nil
}
