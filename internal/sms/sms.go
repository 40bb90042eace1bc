// Package sms implements the +CMGS= submission steps (§4.6) that follow
// the wait_sms handoff (which the root Instance performs): PDU decode via
// the smscodec collaborator, and receiver-address normalization/resolution
// ahead of delivery routing.
package sms

import (
	"strings"

	"github.com/basebandsim/basebandsim/internal/relay"
	"github.com/basebandsim/basebandsim/internal/smscodec"
	"github.com/basebandsim/basebandsim/internal/voicecall"
)

// Route describes where a decoded submission's deliver PDU(s) should go.
type Route struct {
	Receiver   string
	Local      bool // true: deliver to an in-process peer instance
	PeerID     int  // valid when Local
	RemotePort int  // valid when !Local
	RemoteID   int  // valid when !Local
}

// StripEscape removes the trailing Ctrl-Z (0x1A) the terminal appends to
// an SMS PDU body, per §4.6.
func StripEscape(body string) string {
	return strings.TrimSuffix(body, "\x1a")
}

// Resolve decodes a submitted PDU and works out where its deliver PDU(s)
// should be routed, applying the same number-normalization rule as an
// outbound dial (§4.6: "Extract the numeric receiver, normalize it (same
// rules as outbound dial)").
func Resolve(codec smscodec.Codec, hexPDU string, ownInstanceID, basePort int) (smscodec.Submission, Route, error) {
	sub, err := codec.DecodeSubmit(hexPDU)
	if err != nil {
		return smscodec.Submission{}, Route{}, err
	}
	number := voicecall.Normalize(sub.Receiver, ownInstanceID)
	route := Route{Receiver: number}
	port, instanceID, ok := relay.ToPort(atoiOrZero(number))
	if !ok {
		port, instanceID, ok = relay.StringToPort(number, ownInstanceID)
	}
	if ok && port == basePort {
		route.Local = true
		route.PeerID = instanceID
	} else if ok {
		route.RemotePort = port
		route.RemoteID = instanceID
	}
	return sub, route, nil
}

func atoiOrZero(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return -1
		}
		n = n*10 + int(r-'0')
	}
	return n
}
