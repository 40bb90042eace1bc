package basebandsim

import (
	"strconv"
	"strings"
	"time"
)

// handleCMGFSet implements AT+CMGF=<mode>: 0 selects PDU mode (the only
// mode this core speaks); selecting it also triggers the %CTZV
// time/timezone push the source sends once a session establishes PDU
// mode, supplemented from original_source/ (SPEC_FULL.md "SUPPLEMENTED
// FEATURES").
func handleCMGFSet(inst *Instance, cmd string) {
	arg := cmd[len("+CMGF="):]
	n, err := strconv.Atoi(arg)
	if err != nil {
		inst.replyCME(cmeIncorrectParameters)
		return
	}
	if n != 0 {
		inst.replyCME(cmeNotSupported)
		return
	}
	inst.replyOK()
	inst.sendTimeUpdate()
}

// sendTimeUpdate emits the %CTZV unsolicited time/timezone push using
// the host's current wall-clock time and zone offset, in the
// yy/mm/dd:hh:mm:ss±tz:dst:tzname form (UTC date and time, offset in
// quarter hours, DST flag, zone name with '/' replaced by '!').
func (inst *Instance) sendTimeUpdate() {
	local := time.Now()
	utc := local.UTC()
	tzName, offsetSeconds := local.Zone()
	sign := '+'
	if offsetSeconds < 0 {
		sign = '-'
		offsetSeconds = -offsetSeconds
	}
	dst := 0
	if local.IsDST() {
		dst = 1
	}
	inst.unsolLine("%%CTZV: %02d/%02d/%02d:%02d:%02d:%02d%c%d:%d:%s",
		utc.Year()%100, int(utc.Month()), utc.Day(), utc.Hour(), utc.Minute(), utc.Second(),
		sign, offsetSeconds/900, dst, strings.ReplaceAll(tzName, "/", "!"))
}

// handleCUSATT/CUSATE implement the STK (SIM toolkit) proactive-command
// passthrough original_source/telephony/sim_card.h declares
// (asimcard STK hooks) and spec.md's SIM collaborator leaves as a narrow
// capability: this core has no STK applet to drive, so it acknowledges
// without producing a proactive command.
func handleCUSATTSet(inst *Instance, _ string) {
	inst.replyOK()
}
func handleCUSATESet(inst *Instance, _ string) {
	inst.replyOK()
}

// Identification literals (§6's representative AT surface). These are sent
// through Send's literal path, which already runs the result through
// framer.EndAsReply and so appends "\rOK" itself; the stored text must not
// duplicate it, matching the source's table entries (e.g.
// { "+CGSN", "000000000000000", NULL }, no embedded terminator).
const (
	literalCGMI = "Android"
	literalCGMM = "Android Baseband"
	literalCGMR = "1.0"
)
