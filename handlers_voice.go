package basebandsim

import (
	"time"

	"github.com/basebandsim/basebandsim/internal/relay"
	"github.com/basebandsim/basebandsim/internal/voicecall"
)

const callDialDelay = 1000 * time.Millisecond // CALL_DELAY_DIAL

// sendCallsUpdateUnsol emits the bare "CALL STATE CHANGED" unsolicited
// every call-table mutation must be followed by (§5 ordering guarantee).
func (inst *Instance) sendCallsUpdateUnsol() {
	inst.framer.Begin()
	inst.framer.Add("CALL STATE CHANGED")
	inst.framer.EndAsUnsol()
}

func (inst *Instance) noCarrierUnsol() {
	inst.framer.Begin()
	inst.framer.Add("NO CARRIER")
	inst.framer.EndAsUnsol()
}

// freeCall tears down a call and records its cause for the next AT+CEER.
func (inst *Instance) freeCall(id int, cause voicecall.FailCause) bool {
	c, ok := inst.calls.Free(id, cause)
	if ok {
		inst.lastCallFailCause = c
	}
	return ok
}

func isDialableNumber(number string) bool {
	if number == "" {
		return false
	}
	for _, r := range number {
		if r == '+' {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (inst *Instance) isEmergency(number string) bool {
	for _, e := range inst.emergencyNumbers {
		if e != "" && e == number {
			return true
		}
	}
	return false
}

// handleDial implements ATD<number>[;][I|i] (§4.3).
func handleDial(inst *Instance, cmd string) {
	raw := cmd[1:] // strip leading 'D'
	trimmedNoClir, clir := voicecall.StripDialSuffix(raw)
	num := voicecall.Normalize(trimmedNoClir, inst.instanceID)

	call := inst.calls.Alloc(voicecall.Outbound, voicecall.Voice, num)
	if call == nil {
		inst.reply("ERROR: TOO MANY CALLS")
		return
	}
	call.State = voicecall.Dialing
	if clir {
		call.NumberPresentation = voicecall.PresentationRestricted
	}
	call.IsRemote = relay.IsRemoteNumber(num, inst.instanceID)

	inst.sendCallsUpdateUnsol()

	cid := call.ID
	t := time.AfterFunc(callDialDelay, func() { inst.onDialTimer(cid) })
	call.CancelTimer = func() { t.Stop() }

	if inst.isEmergency(num) {
		inst.inEmergencyMode = true
		inst.framer.Begin()
		inst.framer.Add("+WSOS: 1\r")
		inst.framer.EndAsReply()
		return
	}
	inst.replyOK()
}

// onDialTimer is the DIALING->ALERTING timer callback (§4.3: "Schedule a
// timer at now + 1000 ms that transitions DIALING -> ALERTING and, if
// remote, initiates a relay dial").
func (inst *Instance) onDialTimer(callID int) {
	inst.lock()
	defer inst.unlock()
	if inst.closed {
		return
	}
	call := inst.calls.Find(callID)
	if call == nil {
		return
	}
	if call.State == voicecall.Dialing {
		if !isDialableNumber(call.Number) {
			inst.freeCall(call.ID, voicecall.CauseUnobtainableNumber)
		} else {
			call.State = voicecall.Alerting
			if call.IsRemote {
				started := inst.relayReg.Dial(inst.basePort, inst.instanceID, inst.ownNumber(), call.Number, func(success bool) {
					inst.lock()
					defer inst.unlock()
					if inst.closed {
						return
					}
					if !success {
						if inst.freeCall(callID, voicecall.CauseNormal) {
							inst.noCarrierUnsol()
						}
					}
				})
				if !started {
					inst.freeCall(call.ID, voicecall.CauseNormal)
				}
			}
		}
	}
	inst.sendCallsUpdateUnsol()
}

// handleAnswer implements ATA (§4.3): for each call, INCOMING->ACTIVE,
// ACTIVE->HELD.
func handleAnswer(inst *Instance, _ string) {
	for _, c := range inst.calls.All() {
		switch c.State {
		case voicecall.Incoming:
			c.State = voicecall.Active
		case voicecall.Active:
			c.State = voicecall.Held
		}
	}
	inst.replyOK()
	inst.sendCallsUpdateUnsol()
}

// handleHangupUser implements ATH. The source only acts on an INCOMING
// call ("user is busy" semantics), freeing the first one found; this is
// carried over from android_modem.c's handleAnswer('H') branch rather
// than invented, since spec.md §4.3 does not describe ATH itself.
func handleHangupUser(inst *Instance, _ string) {
	if c := inst.calls.FindByState(voicecall.Incoming); c != nil {
		inst.freeCall(c.ID, voicecall.CauseBusy)
	}
	inst.replyOK()
	inst.sendCallsUpdateUnsol()
}

// handleCHLD implements AT+CHLD=<n> (§4.3) with every subcommand's exact
// semantics, including the ones that validate before mutating.
func handleCHLD(inst *Instance, cmd string) {
	arg := cmd[len("+CHLD="):]
	if arg == "" {
		inst.reply("ERROR: BAD COMMAND")
		return
	}
	switch arg[0] {
	case '0':
		inst.calls.ReleaseHeldWaitingIncoming()
	case '1':
		if len(arg) > 1 {
			id := int(arg[1] - '0')
			inst.calls.ReleaseSpecific(id)
		} else {
			inst.calls.ReleaseActive()
		}
	case '2':
		if len(arg) > 1 {
			id := int(arg[1] - '0')
			if err := inst.calls.HoldSpecific(id); err != nil {
				inst.replyCME(cmeOperationNotAllowed)
				return
			}
		} else {
			if err := inst.calls.HoldActive(inst.features&FeatureHold != 0); err != nil {
				inst.reply("ERROR: UNSUPPORTED")
				return
			}
		}
	case '3':
		if err := inst.calls.Conference(); err != nil {
			inst.replyCME(cmeOperationNotAllowed)
			return
		}
	case '4':
		inst.calls.Transfer()
	default:
		inst.reply("ERROR: BAD COMMAND")
		return
	}
	inst.sendCallsUpdateUnsol()
	inst.replyOK()
}

// handleCLCC implements AT+CLCC: one line per voice call.
func handleCLCC(inst *Instance, _ string) {
	inst.framer.Begin()
	for _, c := range inst.calls.All() {
		if c.Mode != voicecall.Voice {
			continue
		}
		number := c.Number
		if c.NumberPresentation != voicecall.PresentationAllowed {
			number = ""
		}
		multi := 0
		if c.Multi {
			multi = 1
		}
		inst.framer.Add("+CLCC: %d,%d,%d,%d,%d,\"%s\",%d,\"\",2,%d\r\n",
			c.ID, c.Dir, c.State, c.Mode, multi, number, 129, c.NumberPresentation)
	}
	inst.framer.EndAsReply()
}

// handleCEER implements AT+CEER: last-call-fail-cause report.
func handleCEER(inst *Instance, _ string) {
	inst.reply("+CEER: %d\n", inst.lastCallFailCause)
}
