package basebandsim

import "strings"

// handleCPINGet implements AT+CPIN?: reports what the SIM is currently
// waiting on.
func handleCPINGet(inst *Instance, _ string) {
	switch inst.sim.Status() {
	case SimReady:
		inst.reply("+CPIN: READY\r")
	case SimPIN:
		inst.reply("+CPIN: SIM PIN\r")
	case SimPUK:
		inst.reply("+CPIN: SIM PUK\r")
	case SimNetworkPersonalization:
		inst.reply("+CPIN: PH-NET PIN\r")
	default:
		inst.replyCME(cmeNoNetwork)
	}
}

// handleCPINSet implements AT+CPIN=<pin>[,<newpin>] (§1's SimCard
// collaborator, exercised by +CPIN/+CPINR per spec.md §6).
func handleCPINSet(inst *Instance, cmd string) {
	arg := cmd[len("+CPIN="):]
	parts := strings.Split(arg, ",")
	code := strings.Trim(parts[0], "\"")

	switch inst.sim.Status() {
	case SimPIN:
		if !inst.sim.CheckPIN(code) {
			inst.replyCME(cmeWrongPassword)
			return
		}
		inst.sim.SetStatus(SimReady)
	case SimPUK:
		if len(parts) < 2 {
			inst.replyCME(cmeIncorrectParameters)
			return
		}
		newPIN := strings.Trim(parts[1], "\"")
		if !inst.sim.CheckPUK(code, newPIN) {
			inst.replyCME(cmeWrongPassword)
			return
		}
		inst.sim.SetStatus(SimReady)
	default:
		inst.replyCME(cmeOperationNotAllowed)
		return
	}
	inst.replyOK()
}

// handleCPINR implements AT+CPINR: reports remaining PIN/PUK retries.
func handleCPINR(inst *Instance, _ string) {
	inst.framer.Begin()
	inst.framer.Add("+CPINR: SIM PIN,%d,%d\r\n", inst.sim.PINRetries(), 3)
	inst.framer.Add("+CPINR: SIM PUK,%d,%d\r", inst.sim.PUKRetries(), 6)
	inst.framer.EndAsReply()
}
