package basebandsim

import (
	"strconv"
	"strings"
)

// handleCCFCSet implements AT+CCFC=<reason>,<mode>[,<number>[,...,<classx>]]
// (§1's SupplementaryStore collaborator). mode 0=disable,1=enable,2=query,
// 3=registration, 4=erasure.
func handleCCFCSet(inst *Instance, cmd string) {
	arg := cmd[len("+CCFC="):]
	parts := splitCSV(arg)
	if len(parts) < 2 {
		inst.replyCME(cmeIncorrectParameters)
		return
	}
	reason, err1 := strconv.Atoi(parts[0])
	mode, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		inst.replyCME(cmeIncorrectParameters)
		return
	}
	classx := 7
	if len(parts) >= 6 {
		if c, err := strconv.Atoi(parts[5]); err == nil {
			classx = c
		}
	}
	switch mode {
	case 2:
		number := inst.supplementary.ForwardGet(reason, classx)
		if number == "" {
			inst.reply("+CCFC: 0\r")
		} else {
			inst.reply("+CCFC: 1,%d,\"%s\"\r", classx, number)
		}
		return
	case 0, 4:
		inst.supplementary.ForwardSet(reason, classx, "")
		inst.replyOK()
		return
	case 1, 3:
		number := ""
		if len(parts) >= 3 {
			number = strings.Trim(parts[2], "\"")
		}
		inst.supplementary.ForwardSet(reason, classx, number)
		inst.replyOK()
		return
	default:
		inst.replyCME(cmeIncorrectParameters)
		return
	}
	inst.replyOK()
}

// handleCLCKSet implements AT+CLCK=<facility>,<mode>[,<password>[,<classx>]]
// (§1's SupplementaryStore collaborator). This fixes the source's
// documented unchecked-pointer-arithmetic bug (§9 Open Question:
// "handleFacilityLockReq reads past the `=` without checking it exists")
// by validating the argument is present before indexing into it.
func handleCLCKSet(inst *Instance, cmd string) {
	arg := cmd[len("+CLCK="):]
	if arg == "" {
		inst.replyCME(cmeIncorrectParameters)
		return
	}
	parts := splitCSV(arg)
	facility := strings.Trim(parts[0], "\"")
	if len(parts) < 2 {
		inst.replyCME(cmeIncorrectParameters)
		return
	}
	mode, err := strconv.Atoi(parts[1])
	if err != nil {
		inst.replyCME(cmeIncorrectParameters)
		return
	}
	classx := 7
	if len(parts) >= 4 {
		if c, err := strconv.Atoi(parts[3]); err == nil {
			classx = c
		}
	}
	switch mode {
	case 2:
		enabled := inst.supplementary.BarringEnabled(facility, classx)
		status := 0
		if enabled {
			status = 1
		}
		inst.reply("+CLCK: %d\r", status)
		return
	case 0, 1:
		password := ""
		if len(parts) >= 3 {
			password = strings.Trim(parts[2], "\"")
		}
		if !inst.supplementary.SetBarring(facility, classx, mode == 1, password) {
			inst.replyCME(cmeWrongPassword)
			return
		}
		inst.replyOK()
		return
	default:
		inst.replyCME(cmeIncorrectParameters)
		return
	}
	inst.replyOK()
}

// handleCPWDSet implements AT+CPWD=<facility>,<oldpwd>,<newpwd>.
func handleCPWDSet(inst *Instance, cmd string) {
	arg := cmd[len("+CPWD="):]
	parts := splitCSV(arg)
	if len(parts) < 3 {
		inst.replyCME(cmeIncorrectParameters)
		return
	}
	facility := strings.Trim(parts[0], "\"")
	oldPwd := strings.Trim(parts[1], "\"")
	newPwd := strings.Trim(parts[2], "\"")
	if !inst.supplementary.ChangePassword(facility, oldPwd, newPwd) {
		inst.replyCME(cmeWrongPassword)
		return
	}
	inst.replyOK()
}

// handleCRSM implements AT+CRSM=<command>[,...]: a minimal SIM I/O
// passthrough stub, matching original_source/telephony/sim_card.h's
// narrow asimcard_io surface — no filesystem is modeled, so every request
// reports "not found".
func handleCRSM(inst *Instance, _ string) {
	inst.reply("+CRSM: 106,130,\"\"\r")
}

func splitCSV(s string) []string {
	return strings.Split(s, ",")
}
