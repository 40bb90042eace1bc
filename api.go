package basebandsim

import (
	"time"

	"github.com/basebandsim/basebandsim/internal/nvram"
	"github.com/basebandsim/basebandsim/internal/registration"
	"github.com/basebandsim/basebandsim/internal/relay"
	"github.com/basebandsim/basebandsim/internal/voicecall"
)

// This file implements §6's "Consumer API (in-process)": the accessors,
// mutators and simulated events a host process drives an Instance with
// directly, alongside send(cmd). Every entry point takes the instance
// lock itself, the same discipline Send and the timer/relay callbacks in
// handlers_voice.go already follow.

// --- accessors ---

// GetRadioState returns the current radio power state.
func (inst *Instance) GetRadioState() RadioState {
	inst.lock()
	defer inst.unlock()
	return inst.radio
}

// GetVoiceRegistration returns the current voice registration state.
func (inst *Instance) GetVoiceRegistration() registration.State {
	inst.lock()
	defer inst.unlock()
	return inst.voiceState
}

// GetTechnology returns the active radio access technology.
func (inst *Instance) GetTechnology() Technology {
	inst.lock()
	defer inst.unlock()
	return inst.technology
}

// GetSignalStrength returns the 2G/3G signal strength pair AT+CSQ reports.
func (inst *Instance) GetSignalStrength() (rssi, ber int) {
	inst.lock()
	defer inst.unlock()
	return inst.rssi, inst.ber
}

// GetCallCount returns the number of live calls in the call table.
func (inst *Instance) GetCallCount() int {
	inst.lock()
	defer inst.unlock()
	return inst.calls.Count()
}

// GetCall returns a copy of the i'th live call (table order, 0-based), or
// ok=false if i is out of range. A copy is returned rather than the
// internal *voicecall.Call so a caller cannot mutate table state outside
// the lock.
func (inst *Instance) GetCall(i int) (call voicecall.Call, ok bool) {
	inst.lock()
	defer inst.unlock()
	all := inst.calls.All()
	if i < 0 || i >= len(all) {
		return voicecall.Call{}, false
	}
	return *all[i], true
}

// GetOperatorName returns the current operator's name in its configured
// report form, or ok=false if there is no usable registration.
func (inst *Instance) GetOperatorName() (name string, ok bool) {
	inst.lock()
	defer inst.unlock()
	if !inst.operators.HasNetwork() {
		return "", false
	}
	op := inst.operators.Operators[inst.operators.OperIndex]
	return op.Name(inst.operators.OperNameIndex), true
}

// GetGSMLocation returns the current LAC/CID pair.
func (inst *Instance) GetGSMLocation() (lac, cid int) {
	inst.lock()
	defer inst.unlock()
	return inst.areaCode, inst.cellID
}

// GetSMSCAddress returns the configured SMSC address.
func (inst *Instance) GetSMSCAddress() string {
	inst.lock()
	defer inst.unlock()
	return inst.smscAddress
}

// --- mutators ---

// SetRadioState drives the radio power transition the same way
// AT+CFUN= does, without producing an AT reply.
func (inst *Instance) SetRadioState(state RadioState) {
	inst.lock()
	defer inst.unlock()
	inst.setRadioState(state)
}

// SetVoiceRegistration forces the voice registration state directly, the
// same cascade AT+COPS= and SetRadioState drive it through.
func (inst *Instance) SetVoiceRegistration(state registration.State) {
	inst.lock()
	defer inst.unlock()
	inst.setVoiceRegistration(state)
}

// SetDataRegistration forces the data registration state directly,
// triggering the detach cascade (§4.4) if the new state leaves
// {HOME, ROAMING}.
func (inst *Instance) SetDataRegistration(state registration.State) {
	inst.lock()
	defer inst.unlock()
	inst.setDataRegistration(state)
}

// SetDataNetworkType records the reported data network type and re-emits
// +CGREG, mirroring amodem_set_data_network_type (android_modem.c:1124).
// The network type appears in that +CGREG line only when the instance's
// supportsNetworkDataType flag is set; it is false by default.
func (inst *Instance) SetDataNetworkType(networkType int) {
	inst.lock()
	defer inst.unlock()
	inst.dataNetwork = networkType
	inst.setDataRegistration(inst.dataState)
}

// SetOperatorName stores one name form for one operator-table slot,
// mirroring amodem_set_operator_name_ex (android_modem.c:1136). Returns
// false if slot is out of range.
func (inst *Instance) SetOperatorName(slot int, form registration.NameForm, name string) bool {
	inst.lock()
	defer inst.unlock()
	if slot < 0 || slot >= registration.MaxOperators {
		return false
	}
	inst.operators.Operators[slot].Names[form] = name
	if slot >= inst.operators.OperCount {
		inst.operators.OperCount = slot + 1
	}
	return true
}

// SetSignalStrength sets the 2G/3G signal strength pair, resets the LTE
// fields to their unknown sentinels, and emits a +CSQ unsolicited,
// mirroring amodem_set_signal_strength (android_modem.c:1488).
func (inst *Instance) SetSignalStrength(rssi, ber int) {
	inst.lock()
	defer inst.unlock()
	inst.rssi, inst.ber = rssi, ber
	inst.rxlev, inst.rsrp, inst.rssnr = 99, 65535, 65535
	inst.unsolLine("+CSQ: %d,%d", inst.rssi, inst.ber)
}

// SetLTESignalStrength sets the LTE signal fields, resets rssi/ber to
// their unknown sentinel (99), and emits the same +CSQ unsolicited,
// mirroring amodem_set_lte_signal_strength (android_modem.c:1510).
func (inst *Instance) SetLTESignalStrength(rxlev, rsrp, rssnr int) {
	inst.lock()
	defer inst.unlock()
	inst.rxlev, inst.rsrp, inst.rssnr = rxlev, rsrp, rssnr
	inst.rssi, inst.ber = 99, 99
	inst.unsolLine("+CSQ: %d,%d", inst.rssi, inst.ber)
}

// SetTechnology forces the active radio access technology and persists it.
func (inst *Instance) SetTechnology(tech Technology) {
	inst.lock()
	defer inst.unlock()
	inst.technology = tech
	inst.nvSet(nvram.KeyModemTechnology, tech.String())
}

// SetGSMLocation updates LAC/CID and, if either changed, re-emits +CREG
// with the new values, mirroring amodem_set_gsm_location
// (android_modem.c:1619).
func (inst *Instance) SetGSMLocation(lac, cid int) {
	inst.lock()
	defer inst.unlock()
	if inst.areaCode == lac && inst.cellID == cid {
		return
	}
	inst.areaCode, inst.cellID = lac, cid
	inst.setVoiceRegistration(inst.voiceState)
}

// SetCDMASubscriptionSource forces the CDMA RUIM/NV subscription source.
func (inst *Instance) SetCDMASubscriptionSource(src SubscriptionSource) {
	inst.lock()
	defer inst.unlock()
	inst.subscriptionSource = src
}

// SetCDMAPRLVersion forces the CDMA preferred-roaming-list version and
// persists it.
func (inst *Instance) SetCDMAPRLVersion(version int) {
	inst.lock()
	defer inst.unlock()
	inst.prlVersion = version
	inst.nvSet(nvram.KeyPrlVersion, itoaSimple(version))
}

// SetSMSCAddress sets the SMSC address and persists it, the same
// mutation AT+CSCA= performs.
func (inst *Instance) SetSMSCAddress(addr string) {
	inst.lock()
	defer inst.unlock()
	inst.smscAddress = addr
	inst.nvSet(nvram.KeyModemSmscAddress, addr)
}

// SetFeature sets or clears an optional-behavior bit, mirroring
// amodem_set_feature (android_modem.c:905). It produces no unsolicited.
func (inst *Instance) SetFeature(mask FeatureMask, enabled bool) {
	inst.lock()
	defer inst.unlock()
	if enabled {
		inst.features |= mask
	} else {
		inst.features &^= mask
	}
}

// --- simulated events ---

// AddInboundCall allocates an inbound voice call, mirroring
// amodem_add_inbound_call (android_modem.c:1347): INCOMING if this is the
// only voice call, else WAITING. It always emits RING, and additionally
// emits +CNAP when a caller name is given under an allowed presentation,
// or when the presentation itself is restricted/unavailable.
func (inst *Instance) AddInboundCall(number string, presentation voicecall.NumberPresentation, callerName string) *voicecall.Call {
	inst.lock()
	defer inst.unlock()

	call := inst.calls.Alloc(voicecall.Inbound, voicecall.Voice, number)
	if call == nil {
		return nil
	}
	call.NumberPresentation = presentation
	call.IsRemote = relay.IsRemoteNumber(number, inst.instanceID)

	voiceCalls := 0
	for _, c := range inst.calls.All() {
		if c.Mode == voicecall.Voice {
			voiceCalls++
		}
	}
	if voiceCalls == 1 {
		call.State = voicecall.Incoming
	} else {
		call.State = voicecall.Waiting
	}

	cnapName := ""
	if presentation == voicecall.PresentationAllowed {
		cnapName = callerName
		call.CallerName = callerName
	}

	inst.framer.Begin()
	inst.framer.Add("RING")
	inst.framer.EndAsUnsol()

	if cnapName != "" || (presentation > voicecall.PresentationAllowed && presentation <= voicecall.PresentationUnavailable) {
		inst.unsolLine("+CNAP: \"%s\",%d", cnapName, presentation)
	}
	return call
}

// AddOutboundCall allocates an outbound voice call the same way
// handleDial does, minus the AT-specific parsing: strip the CLIR suffix,
// normalize the number, enter DIALING, emit CALL STATE CHANGED, and arm
// the DIALING->ALERTING timer (§4.3).
func (inst *Instance) AddOutboundCall(number string) *voicecall.Call {
	inst.lock()
	defer inst.unlock()

	trimmedNoClir, clir := voicecall.StripDialSuffix(number)
	num := voicecall.Normalize(trimmedNoClir, inst.instanceID)

	call := inst.calls.Alloc(voicecall.Outbound, voicecall.Voice, num)
	if call == nil {
		return nil
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

	return call
}

// DisconnectCall implements amodem_disconnect_call (android_modem.c:1588):
// looks up a call by number, frees it with cause NORMAL, and emits
// NO CARRIER. Returns false if no call matched.
func (inst *Instance) DisconnectCall(number string) bool {
	inst.lock()
	defer inst.unlock()
	c := inst.calls.FindByNumber(number)
	if c == nil {
		return false
	}
	if inst.freeCall(c.ID, voicecall.CauseNormal) {
		inst.noCarrierUnsol()
		return true
	}
	return false
}

// RemoteCallBusy implements amodem_remote_call_busy (android_modem.c:1574):
// looks up a call by number, frees it with cause BUSY, and emits
// NO CARRIER. Returns false if no call matched.
func (inst *Instance) RemoteCallBusy(number string) bool {
	inst.lock()
	defer inst.unlock()
	c := inst.calls.FindByNumber(number)
	if c == nil {
		return false
	}
	if inst.freeCall(c.ID, voicecall.CauseBusy) {
		inst.noCarrierUnsol()
		return true
	}
	return false
}

// ClearCall implements amodem_clear_call (android_modem.c:1601): frees
// every call in the table and emits NO CARRIER once, not once per call.
func (inst *Instance) ClearCall() {
	inst.lock()
	defer inst.unlock()
	all := inst.calls.All()
	if len(all) == 0 {
		return
	}
	ids := make([]int, len(all))
	for i, c := range all {
		ids[i] = c.ID
	}
	for i := len(ids) - 1; i >= 0; i-- {
		inst.freeCall(ids[i], voicecall.CauseNormal)
	}
	inst.noCarrierUnsol()
}

// UpdateCall implements amodem_update_call (android_modem.c:1561): looks
// up a call by number, relays the HOLD/ACCEPT side effect if the call is
// remote, sets its new state, and emits CALL STATE CHANGED. Returns false
// if no call matched.
func (inst *Instance) UpdateCall(number string, state voicecall.State) bool {
	inst.lock()
	defer inst.unlock()
	c := inst.calls.FindByNumber(number)
	if c == nil {
		return false
	}
	if c.IsRemote {
		switch state {
		case voicecall.Held:
			inst.relayReg.Other(inst.basePort, inst.instanceID, inst.ownNumber(), c.Number, relay.Hold)
		case voicecall.Active:
			inst.relayReg.Other(inst.basePort, inst.instanceID, inst.ownNumber(), c.Number, relay.Accept)
		}
	}
	c.State = state
	inst.sendCallsUpdateUnsol()
	return true
}

// ReceiveSMS delivers one SMS-DELIVER PDU to this instance as if it had
// arrived over the relay, the same shortcut handleSMSBody's local-peer
// path uses (§4.6).
func (inst *Instance) ReceiveSMS(pdu string) {
	inst.deliverSMS(pdu)
}

// ReceiveCBS delivers one cell-broadcast PDU to this instance, the CBS
// counterpart to ReceiveSMS (android_modem.c:490).
func (inst *Instance) ReceiveCBS(pdu string) {
	inst.lock()
	defer inst.unlock()
	if inst.closed {
		return
	}
	inst.deliverCBS(pdu)
}

// SendSTKUnsolProactiveCommand emits a +CUSATP unsolicited carrying a SIM
// toolkit proactive command, mirroring
// amodem_send_stk_unsol_proactive_command (android_modem.c:1333).
func (inst *Instance) SendSTKUnsolProactiveCommand(data string) {
	inst.lock()
	defer inst.unlock()
	inst.unsolLine("+CUSATP: %s", data)
}
