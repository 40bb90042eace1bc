package basebandsim

import (
	"strings"

	"github.com/basebandsim/basebandsim/internal/nvram"
	"github.com/basebandsim/basebandsim/internal/sms"
)

// handleCMGSSet implements AT+CMGS=<length> (§4.6): prompts "> " and
// arms wait_sms so the next Send() call is treated as the PDU body
// instead of a command line.
func handleCMGSSet(inst *Instance, _ string) {
	inst.waitSMS = true
	inst.reply("> ")
}

// handleSMSBody is the wait_sms continuation (§4.1, §4.6): decodes the
// submitted PDU, normalizes and resolves its receiver, and routes the
// resulting deliver PDU(s) to a local peer or across the relay.
func (inst *Instance) handleSMSBody(body string) {
	hexPDU := sms.StripEscape(body)
	sub, route, err := sms.Resolve(inst.codec, hexPDU, inst.instanceID, inst.basePort)
	if err != nil {
		inst.replyCME(cmeIncorrectParameters)
		return
	}
	if !sub.Complete {
		inst.reply("+CMGS: 0\r")
		return
	}

	pdus, err := inst.codec.EncodeDeliver(inst.ownNumber(), sub.Text)
	if err != nil {
		inst.replyCME(cmeIncorrectParameters)
		return
	}

	if route.Local {
		if peer, ok := inst.peers.Lookup(inst.basePort, route.PeerID); ok {
			for _, pdu := range pdus {
				peer.deliverSMS(pdu)
			}
		}
	} else if route.RemotePort != 0 {
		for _, pdu := range pdus {
			inst.relayReg.SMS(inst.basePort, inst.instanceID, route.Receiver, []byte(pdu))
		}
	}
	inst.reply("+CMGS: 0\r")
}

// deliverSMS presents one SMS-DELIVER PDU as an unsolicited +CMT, using the
// source's literal SMS_UNSOL_HEADER (android_modem.c:464, "+CMT: 0\r\n") and
// matching its "deliver directly into the peer instance's unsolicited
// stream" local-delivery shortcut (§4.6).
func (inst *Instance) deliverSMS(pdu string) {
	inst.lock()
	defer inst.unlock()
	if inst.closed {
		return
	}
	inst.framer.Begin()
	inst.framer.Add("+CMT: 0\r\n%s", pdu)
	inst.framer.EndAsUnsol()
}

// deliverCBS presents one cell-broadcast PDU as an unsolicited +CBM, the
// CBS_UNSOL_HEADER counterpart to deliverSMS (android_modem.c:491).
func (inst *Instance) deliverCBS(pdu string) {
	inst.checkLock()
	inst.framer.Begin()
	inst.framer.Add("+CBM: 0\r\n%s", pdu)
	inst.framer.EndAsUnsol()
}

// handleCSCASet/Get implement AT+CSCA: the SMSC address (§4.6).
func handleCSCASet(inst *Instance, cmd string) {
	arg := cmd[len("+CSCA="):]
	parts := strings.Split(arg, ",")
	inst.smscAddress = strings.Trim(parts[0], "\"")
	inst.nvSet(nvram.KeyModemSmscAddress, inst.smscAddress)
	inst.replyOK()
}

func handleCSCAGet(inst *Instance, _ string) {
	inst.reply("+CSCA: \"%s\",%d\r", inst.smscAddress, inst.smscTOA)
}
