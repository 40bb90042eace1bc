package basebandsim

import (
	"strconv"
	"strings"

	"github.com/basebandsim/basebandsim/internal/registration"
)

// handleCFUNSet implements AT+CFUN=<n> (§4.4): 0/4 power the radio off, 1
// powers it on. This mirrors _amodem_set_radio_state (android_modem.c:957):
// a transition to OFF forces voice and data registration to UNREGISTERED
// and powers the SIM off; a transition to ON restores both to HOME and
// powers the SIM back on. Forcing data registration away from HOME/ROAMING
// is what drives the PDP detach cascade (§4.4, setDataRegistration below).
func handleCFUNSet(inst *Instance, cmd string) {
	arg := cmd[len("+CFUN="):]
	n, err := strconv.Atoi(arg)
	if err != nil {
		inst.reply("ERROR: BAD COMMAND")
		return
	}
	switch n {
	case 1:
		inst.replyOK()
		inst.setRadioState(RadioOn)
	case 0, 4:
		inst.replyOK()
		inst.setRadioState(RadioOff)
	default:
		inst.replyCME(cmeIncorrectParameters)
		return
	}
}

// setRadioState implements _amodem_set_radio_state (android_modem.c:957):
// idempotent if already in the requested state; otherwise ties the radio
// to the SIM's power and to voice/data registration, which is what drives
// the PDP detach cascade (§4.4, setDataRegistration below) on power-off.
func (inst *Instance) setRadioState(state RadioState) {
	inst.checkLock()
	if inst.radio == state {
		return
	}
	inst.radio = state
	switch state {
	case RadioOn:
		inst.sim.SetPower(true)
		inst.setVoiceRegistration(registration.Home)
		inst.setDataRegistration(registration.Home)
	case RadioOff:
		inst.sim.SetPower(false)
		inst.setVoiceRegistration(registration.Unregistered)
		inst.setDataRegistration(registration.Unregistered)
	}
}

// setVoiceRegistration implements amodem_set_voice_registration
// (android_modem.c:1021): stores the new voice state, ties the selected
// operator index to it (HOME/ROAMING select their pre-populated slot,
// anything else deselects), and emits +CREG per the current unsol mode.
func (inst *Instance) setVoiceRegistration(state registration.State) {
	inst.checkLock()
	inst.voiceState = state
	if idx := registration.IndexForState(state); idx >= 0 {
		inst.operators.OperIndex = idx
	} else {
		inst.operators.OperIndex = -1
	}
	if text, ok := registration.VoiceUnsol(inst.voiceMode, inst.voiceState, inst.areaCode, inst.cellID); ok {
		inst.unsolLine("%s", text)
	}
}

// setDataRegistration implements amodem_set_data_registration
// (android_modem.c:1055): any transition away from {HOME, ROAMING} tears
// down every active PDP context and announces it with +CGEV: ME DETACH
// before the +CGREG unsol line goes out.
func (inst *Instance) setDataRegistration(state registration.State) {
	inst.checkLock()
	wasAttached := inst.dataState == registration.Home || inst.dataState == registration.Roaming
	inst.dataState = state
	stillAttached := state == registration.Home || state == registration.Roaming
	if wasAttached && !stillAttached {
		inst.pdpTable.DeactivateAll()
		inst.unsolLine("+CGEV: ME DETACH")
	}
	if text, ok := registration.DataUnsol(inst.dataMode, inst.dataState, inst.areaCode, inst.cellID, inst.supportsNetworkDataType, inst.dataNetwork); ok {
		inst.unsolLine("%s", text)
	}
}

func handleCFUNGet(inst *Instance, _ string) {
	inst.reply("+CFUN: %d\r", inst.radio)
}

// handleCREGSet implements AT+CREG=<n> (§4.4): sets the voice
// registration unsolicited-report mode.
func handleCREGSet(inst *Instance, cmd string) {
	arg := cmd[len("+CREG="):]
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 || n > 2 {
		inst.replyCME(cmeIncorrectParameters)
		return
	}
	inst.voiceMode = registration.UnsolMode(n)
	inst.replyOK()
}

func handleCREGGet(inst *Instance, _ string) {
	if text, ok := registration.VoiceUnsol(inst.voiceMode, inst.voiceState, inst.areaCode, inst.cellID); ok {
		inst.reply("%s", text)
		return
	}
	inst.reply("+CREG: %d\r", registration.Disabled)
}

func handleCGREGSet(inst *Instance, cmd string) {
	arg := cmd[len("+CGREG="):]
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 || n > 2 {
		inst.replyCME(cmeIncorrectParameters)
		return
	}
	inst.dataMode = registration.UnsolMode(n)
	inst.replyOK()
}

func handleCGREGGet(inst *Instance, _ string) {
	if text, ok := registration.DataUnsol(inst.dataMode, inst.dataState, inst.areaCode, inst.cellID, inst.supportsNetworkDataType, inst.dataNetwork); ok {
		inst.reply("%s", text)
		return
	}
	inst.reply("+CGREG: %d\r", registration.Disabled)
}

// handleCOPSSet implements AT+COPS=<mode>[,<format>[,<oper>]] (§4.4).
func handleCOPSSet(inst *Instance, cmd string) {
	arg := cmd[len("+COPS="):]
	parts := strings.Split(arg, ",")
	mode, err := strconv.Atoi(parts[0])
	if err != nil {
		inst.replyCME(cmeIncorrectParameters)
		return
	}
	inst.operators.SelectionMode = registration.SelectionMode(mode)

	if len(parts) >= 2 {
		form, err := strconv.Atoi(parts[1])
		if err == nil && form >= int(registration.LongAlpha) && form <= int(registration.Numeric) {
			inst.operators.OperNameIndex = registration.NameForm(form)
		}
	}

	switch registration.SelectionMode(mode) {
	case registration.Manual:
		if len(parts) < 3 {
			inst.replyCME(cmeIncorrectParameters)
			return
		}
		name := strings.Trim(parts[2], "\"")
		idx := inst.operators.FindByName(inst.operators.OperNameIndex, name)
		if idx < 0 {
			inst.replyCME(cmeOperatorSelectFailure)
			return
		}
		if inst.operators.Operators[idx].Status == registration.StatusDenied {
			inst.replyCME(cmeNotAllowed)
			return
		}
		inst.operators.OperIndex = idx
		inst.replyOK()
		// A hit moves both voice and data registration to HOME or ROAMING
		// per the selected index (§4.4); any other slot carries no tie.
		switch idx {
		case registration.HomeIndex:
			inst.setVoiceRegistration(registration.Home)
			inst.setDataRegistration(registration.Home)
		case registration.RoamingIndex:
			inst.setVoiceRegistration(registration.Roaming)
			inst.setDataRegistration(registration.Roaming)
		}
		return
	case registration.Deregistered:
		inst.operators.OperIndex = -1
	case registration.Automatic, registration.ManualThenAutomatic:
		if idx := registration.IndexForState(inst.voiceState); idx >= 0 {
			inst.operators.OperIndex = idx
		}
	}
	inst.replyOK()
}

func handleCOPSGet(inst *Instance, _ string) {
	if !inst.operators.HasNetwork() {
		inst.reply("+COPS: %d\r", inst.operators.SelectionMode)
		return
	}
	op := inst.operators.Operators[inst.operators.OperIndex]
	inst.reply("+COPS: %d,%d,\"%s\"\r", inst.operators.SelectionMode, inst.operators.OperNameIndex, op.Name(inst.operators.OperNameIndex))
}

func handleCOPSTest(inst *Instance, _ string) {
	inst.framer.Begin()
	inst.framer.Add("+COPS: ")
	for i := 0; i < inst.operators.OperCount; i++ {
		if i > 0 {
			inst.framer.Add(",")
		}
		op := inst.operators.Operators[i]
		inst.framer.Add("(%d,\"%s\",\"%s\",\"%s\")", op.Status, op.Name(registration.LongAlpha), op.Name(registration.ShortAlpha), op.Name(registration.Numeric))
	}
	inst.framer.Add("\r")
	inst.framer.EndAsReply()
}

// handleCSQ implements AT+CSQ: reports the instance's current rssi and
// ber values, which reset seeds to 7,99 and the signal-strength setters change
// (§4.4, §6).
func handleCSQ(inst *Instance, _ string) {
	inst.reply("+CSQ: %d,%d\r", inst.rssi, inst.ber)
}
