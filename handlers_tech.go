package basebandsim

import (
	"strconv"
	"strings"

	"github.com/basebandsim/basebandsim/internal/nvram"
)

// handleCTECGet implements AT+CTEC?: reports the active technology.
func handleCTECGet(inst *Instance, _ string) {
	inst.reply("+CTEC: %s\r", inst.technology)
}

// handleCTECTest implements AT+CTEC=?: reports the preferred-mode mask
// the source's preferred_masks[] table names — including the
// documented GSM/WCDMA precedence quirk (types.go's gsmWCDMAMaskQuirk),
// preserved bit-for-bit per the recorded Open Question decision.
func handleCTECTest(inst *Instance, _ string) {
	inst.reply("+CTEC: (%d)\r", inst.preferredMask)
}

// handleCTECSet implements AT+CTEC=<tech>[,<mask>]: switches the active
// technology, matching _amodem_switch_technology's tear-down-then-adopt
// sequence (deactivate every PDP context before changing technology).
func handleCTECSet(inst *Instance, cmd string) {
	arg := cmd[len("+CTEC="):]
	parts := strings.Split(arg, ",")
	tech := techFromString(strings.ToLower(strings.Trim(parts[0], "\"")))
	inst.pdpTable.DeactivateAll()
	inst.technology = tech
	inst.nvSet(nvram.KeyModemTechnology, tech.String())
	if len(parts) >= 2 {
		if mask, err := strconv.ParseUint(parts[1], 0, 32); err == nil {
			inst.preferredMask = uint32(mask)
		}
	}
	inst.reply("+CTEC: %s\r", inst.technology)
}

// handleCCSSGet/Set implement AT+CCSS: the CDMA subscription source
// (RUIM vs NV), per original_source/telephony's CDMA subscription model
// supplemented into this repo (SPEC_FULL.md "SUPPLEMENTED FEATURES").
func handleCCSSGet(inst *Instance, _ string) {
	inst.reply("+CCSS: %d\r", inst.subscriptionSource)
}

func handleCCSSSet(inst *Instance, cmd string) {
	arg := cmd[len("+CCSS="):]
	n, err := strconv.Atoi(arg)
	if err != nil || n < int(SubscriptionRUIM) || n > int(SubscriptionNV) {
		inst.replyCME(cmeIncorrectParameters)
		return
	}
	inst.subscriptionSource = SubscriptionSource(n)
	inst.nvSet(nvram.KeyCdmaSubscription, strconv.Itoa(n))
	inst.replyOK()
}

// handleWRMPSet implements AT+WRMP=<pref>: the CDMA roaming preference.
func handleWRMPSet(inst *Instance, cmd string) {
	arg := cmd[len("+WRMP="):]
	n, err := strconv.Atoi(arg)
	if err != nil || n < int(RoamingPrefHome) || n > int(RoamingPrefAny) {
		inst.replyCME(cmeIncorrectParameters)
		return
	}
	inst.roamingPref = RoamingPref(n)
	inst.nvSet(nvram.KeyCdmaRoamingPref, strconv.Itoa(n))
	inst.replyOK()
}

func handleWRMPGet(inst *Instance, _ string) {
	inst.reply("+WRMP: %d\r", inst.roamingPref)
}

// handleWSOSGet implements AT+WSOS?: reports whether the instance is
// currently in emergency-callback mode (§9 supplemented CDMA feature).
func handleWSOSGet(inst *Instance, _ string) {
	on := 0
	if inst.inEmergencyMode {
		on = 1
	}
	inst.reply("+WSOS: %d\r", on)
}

// handleWPRLGet implements AT+WPRL?: the CDMA PRL (preferred roaming
// list) version.
func handleWPRLGet(inst *Instance, _ string) {
	inst.reply("+WPRL: %d\r", inst.prlVersion)
}
