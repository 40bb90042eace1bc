package basebandsim

// reply frames a single formatted line and emits it as a command reply
// (§4.2). Handlers that need multiple accumulated lines should drive the
// framer directly instead (see handleCLCC).
func (inst *Instance) reply(format string, args ...any) {
	inst.framer.Begin()
	inst.framer.Add(format, args...)
	inst.framer.EndAsReply()
}

// replyOK emits a bare OK reply.
func (inst *Instance) replyOK() {
	inst.reply("OK")
}

// replyCME emits a +CME ERROR: <code> reply (§6).
func (inst *Instance) replyCME(code int) {
	inst.reply("%s", cmeError(code))
}

// unsol frames a single formatted line and emits it as an unsolicited
// notification (§4.2).
func (inst *Instance) unsolLine(format string, args ...any) {
	inst.framer.Begin()
	inst.framer.Add(format, args...)
	inst.framer.EndAsUnsol()
}
