package basebandsim

import (
	"net/netip"
	"strconv"
	"strings"
)

// handleCGDCONTSet implements AT+CGDCONT=<cid>[,<type>,<apn>[,<addr>]]
// (§4.5). With no arguments beyond cid, the context is undefined.
func handleCGDCONTSet(inst *Instance, cmd string) {
	arg := cmd[len("+CGDCONT="):]
	parts := strings.Split(arg, ",")
	cid, err := strconv.Atoi(parts[0])
	if err != nil {
		inst.replyCME(cmeIncorrectParameters)
		return
	}
	if len(parts) < 3 {
		inst.pdpTable.Undefine(cid)
		inst.replyOK()
		return
	}
	apn := strings.Trim(parts[2], "\"")
	addr := netip.Addr{}
	if len(parts) >= 4 {
		addrStr := strings.Trim(parts[3], "\"")
		if parsed, err := netip.ParseAddr(addrStr); err == nil {
			addr = parsed
		}
	}
	if !inst.pdpTable.Define(cid, apn, addr) {
		inst.replyCME(cmeIncorrectParameters)
		return
	}
	inst.replyOK()
}

func handleCGDCONTGet(inst *Instance, _ string) {
	inst.framer.Begin()
	for i := 0; i < 4; i++ {
		c := inst.pdpTable.Get(i + 1)
		if c == nil || c.ID <= 0 {
			continue
		}
		inst.framer.Add("+CGDCONT: %d,\"IP\",\"%s\",\"%s\",0,0\r\n", c.ID, c.APN, c.Addr.String())
	}
	inst.framer.EndAsReply()
}

// handleCGACTSet implements AT+CGACT=<state>,<cid> (§4.5).
func handleCGACTSet(inst *Instance, cmd string) {
	arg := cmd[len("+CGACT="):]
	parts := strings.Split(arg, ",")
	if len(parts) < 2 {
		inst.replyCME(cmeIncorrectParameters)
		return
	}
	state, err1 := strconv.Atoi(parts[0])
	cid, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		inst.replyCME(cmeIncorrectParameters)
		return
	}
	if state == 0 {
		inst.pdpTable.Deactivate(cid)
		inst.replyOK()
		return
	}
	if c := inst.pdpTable.Get(cid); c == nil || c.ID <= 0 {
		inst.replyCME(cmeUnknownPDPContext)
		return
	}
	if !inst.pdpTable.Activate(cid) {
		inst.replyCME(cmeServiceOutOfOrder)
		return
	}
	inst.replyOK()
}

func handleCGACTGet(inst *Instance, _ string) {
	inst.framer.Begin()
	for i := 0; i < 4; i++ {
		c := inst.pdpTable.Get(i + 1)
		if c == nil || c.ID <= 0 {
			continue
		}
		active := 0
		if c.Active {
			active = 1
		}
		inst.framer.Add("+CGACT: %d,%d\r\n", c.ID, active)
	}
	inst.framer.EndAsReply()
}

// handleCGCONTRDP implements AT+CGCONTRDP[=<cid>] (§4.5): reports the
// bound DataLink's addressing for one or every active context.
func handleCGCONTRDP(inst *Instance, cmd string) {
	arg := strings.TrimPrefix(cmd, "+CGCONTRDP")
	arg = strings.TrimPrefix(arg, "=")
	var only int
	if arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil {
			inst.replyCME(cmeIncorrectParameters)
			return
		}
		only = n
	}
	inst.framer.Begin()
	for i := 0; i < 4; i++ {
		c := inst.pdpTable.Get(i + 1)
		if c == nil || c.ID <= 0 || !c.Active || c.Link == nil {
			continue
		}
		if only != 0 && c.ID != only {
			continue
		}
		inst.framer.Add("+CGCONTRDP: %d,%s,\"%s\",\"%s\",\"%s\",\"%s\",\"%s\"\r\n",
			c.ID, c.Link.BearerID(), c.APN, c.Link.Local.String(), c.Link.Gateway.String(),
			c.Link.DNS[0].String(), c.Link.DNS[1].String())
	}
	inst.framer.EndAsReply()
}

// handleDataCall implements D*99***<cid>#: dial into online data mode for
// the given PDP context, which here reduces to activating it (§4.5).
func handleDataCall(inst *Instance, cmd string) {
	// cmd looks like "D*99***<cid>#" or "D*99#" (cid defaults to 1).
	body := strings.TrimSuffix(cmd, "#")
	fields := strings.Split(body, "*")
	cid := 1
	if len(fields) >= 4 && fields[3] != "" {
		if n, err := strconv.Atoi(fields[3]); err == nil {
			cid = n
		}
	}
	if !inst.pdpTable.Activate(cid) {
		inst.reply("NO CARRIER")
		return
	}
	inst.reply("CONNECT")
}
