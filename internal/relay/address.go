// Package relay implements the cross-instance relay (§4.7): the
// (base_port, instance_id) <-> "remote number" address mapping and the
// RemoteCall state machine that carries DIAL/BUSY/HOLD/ACCEPT/HANGUP/SMS
// operations over a TCP control channel to another instance.
package relay

import (
	"strconv"
	"strings"

	"github.com/basebandsim/basebandsim/internal/voicecall"
)

const (
	// NumberBase is REMOTE_NUMBER_BASE from the source.
	NumberBase = 15554
	// NumberMax bounds the encodable port_offset (< 16).
	NumberMax = 16
	// ConsolePort is the base port the port_offset is measured from.
	ConsolePort = 5554
)

// FromModem computes the remote number that addresses (basePort,
// instanceID), or -1 if the pair is not encodable (port must be even,
// port_offset < NumberMax, instanceID in [0,8]) — §4.7.
func FromModem(basePort, instanceID int) int {
	if basePort%2 != 0 {
		return -1
	}
	portOffset := (basePort - ConsolePort) / 2
	if portOffset < 0 || portOffset >= NumberMax {
		return -1
	}
	if instanceID < 0 || instanceID > 8 {
		return -1
	}
	return NumberBase + 10000*instanceID + portOffset*2
}

// ToPort decodes a remote number into (port, instanceID), or ok=false if
// number is not a valid relay address.
func ToPort(number int) (port, instanceID int, ok bool) {
	if number%2 != 0 || number < NumberBase {
		return 0, 0, false
	}
	if ((number-NumberBase)%10000)>>1 >= NumberMax {
		return 0, 0, false
	}
	port = number % 10000
	instanceID = number/10000 - 1
	return port, instanceID, true
}

// StringToPort decodes either form of a relay-addressable number: the
// raw "remote number" digits, or the 11-digit PHONE_PREFIX + <instance>
// + <5-digit> form this instance's own normalization would have produced
// for itself. A trailing ';' is stripped first (§4.7).
func StringToPort(numberStr string, ownInstanceID int) (port, instanceID int, ok bool) {
	s := strings.TrimSuffix(numberStr, ";")
	if len(s) == 11 && s[:6] == voicecall.PhonePrefix[:6] && int(s[6]-'1') == ownInstanceID {
		s = s[6:]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, 0, false
	}
	return ToPort(n)
}
