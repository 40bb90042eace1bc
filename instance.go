// Package basebandsim emulates a cellular baseband: a software stand-in
// for a GSM/UMTS/CDMA/LTE modem that converses with a host telephony
// stack through the AT command protocol (spec.md §1). It is descended
// from jaracil/vmodem's virtual-modem-over-TCP design, generalized from
// Hayes modem semantics to cellular baseband semantics: a voice-call
// state machine with multiparty and hold, registration/operator
// selection, PDP data contexts, SMS submission routing and a
// cross-instance call/SMS relay.
package basebandsim

import (
	"strconv"
	"strings"
	"sync"

	"github.com/basebandsim/basebandsim/internal/dispatch"
	"github.com/basebandsim/basebandsim/internal/framer"
	"github.com/basebandsim/basebandsim/internal/nvram"
	"github.com/basebandsim/basebandsim/internal/pdp"
	"github.com/basebandsim/basebandsim/internal/registration"
	"github.com/basebandsim/basebandsim/internal/relay"
	"github.com/basebandsim/basebandsim/internal/smscodec"
	"github.com/basebandsim/basebandsim/internal/voicecall"
)

// Android emulator telephony constants the source hardcodes
// (android_modem.c).
const (
	operatorHomeMCC    = 310
	operatorHomeMNC    = 260
	operatorRoamingMCC = 310
	operatorRoamingMNC = 295
	defaultSMSC        = "+123456789"
	maxEmergencyExtra  = 15 // NVRAM-backed extras; index 0 is the hardwired "911"
)

// Instance is the ModemInstance aggregate root (§3): one per emulated
// device, addressed by (BasePort, InstanceID), owning its call, PDP and
// operator tables exclusively while sharing the DataLink pool and peer
// registry process-wide.
type Instance struct {
	mu     sync.Mutex
	locked bool

	basePort   int
	instanceID int
	closed     bool

	framer *framer.Framer
	table  dispatch.Table[*Instance]

	unsol func(string)

	radio RadioState

	voiceState registration.State
	dataState  registration.State
	voiceMode  registration.UnsolMode
	dataMode   registration.UnsolMode
	operators  registration.Table

	supportsNetworkDataType bool
	dataNetwork             int

	calls             voicecall.Table
	lastCallFailCause voicecall.FailCause

	pdpTable *pdp.Table
	dataPool *pdp.Pool

	smscAddress string
	smscTOA     int

	emergencyNumbers [16]string

	features      FeatureMask
	technology    Technology
	preferredMask uint32

	subscriptionSource SubscriptionSource
	roamingPref        RoamingPref
	inEmergencyMode    bool
	prlVersion         int

	areaCode, cellID int
	rssi, ber, rxlev int
	rsrp, rssnr      int
	lastDialedTone   byte

	waitSMS bool

	nv            *nvram.Store
	sim           SimCard
	supplementary SupplementaryStore
	codec         smscodec.Codec
	relayReg      *relay.Registry
	peers         *PeerRegistry
}

// NewInstance constructs and resets a ModemInstance per the given
// config, registers it in cfg.Peers, and builds its dispatch table. This
// mirrors vmodem.NewModem's validate-then-default-then-construct shape.
func NewInstance(cfg InstanceConfig) (*Instance, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.setDefaults()

	inst := &Instance{
		basePort:      cfg.BasePort,
		instanceID:    cfg.InstanceID,
		unsol:         cfg.Unsol,
		dataPool:      cfg.DataPool,
		sim:           cfg.Sim,
		supplementary: cfg.Supplementary,
		codec:         cfg.Codec,
		relayReg:      cfg.Relay,
		peers:         cfg.Peers,
	}
	inst.framer = framer.New(inst.unsol)
	inst.pdpTable = pdp.NewTable(cfg.DataPool)

	if cfg.NVRAMDir != "" {
		store, err := nvram.Open(nvram.FileName(cfg.NVRAMDir, cfg.BasePort, cfg.InstanceID))
		if err != nil {
			return nil, err
		}
		inst.nv = store
	}

	inst.reset(*cfg.FeatureHold)
	inst.table = buildDispatchTable()

	inst.peers.register(inst)
	return inst, nil
}

// reset seeds every field to the documented defaults amodem_reset
// establishes (§4.8: "On load, missing keys take documented defaults").
func (inst *Instance) reset(featureHoldDefault bool) {
	inst.radio = RadioOff
	inst.rssi, inst.ber, inst.rxlev = 7, 99, 99
	inst.rsrp, inst.rssnr = 65535, 65535

	inst.emergencyNumbers[0] = "911"
	for i := 1; i <= maxEmergencyExtra; i++ {
		v, _ := inst.nvGet(nvram.EmergencyNumberKey(i), "")
		inst.emergencyNumbers[i] = v
	}

	inst.areaCode, inst.cellID = 0, 0

	inst.operators = registration.NewDefaultTable(operatorHomeMCC, operatorHomeMNC)
	inst.operators.Operators[registration.RoamingIndex].Names[2] = mccMnc(operatorRoamingMCC, operatorRoamingMNC)

	inst.voiceMode = registration.EnabledFull
	inst.dataMode = registration.EnabledFull
	// Radio boots OFF (§3), so voice/data registration boot UNREGISTERED
	// and the operator index is deselected to match (§8: "radio_state ==
	// OFF => voice_state == UNREGISTERED ∧ data_state == UNREGISTERED").
	// AT+CFUN=1 is what moves both to HOME, via setVoiceRegistration/
	// setDataRegistration.
	inst.voiceState = registration.Unregistered
	inst.dataState = registration.Unregistered
	inst.operators.OperIndex = -1
	inst.dataNetwork = dataNetworkUMTS

	techStr, _ := inst.nvGet(nvram.KeyModemTechnology, "gsm")
	inst.technology = techFromString(techStr)
	inst.preferredMask = preferredMasks["gsm/wcdma"]

	ccss, _ := inst.nvGet(nvram.KeyCdmaSubscription, strconv.Itoa(int(SubscriptionRUIM)))
	inst.subscriptionSource = SubscriptionRUIM
	if n, err := strconv.Atoi(ccss); err == nil {
		inst.subscriptionSource = SubscriptionSource(n)
	}
	wrmp, _ := inst.nvGet(nvram.KeyCdmaRoamingPref, strconv.Itoa(int(RoamingPrefAny)))
	inst.roamingPref = RoamingPrefAny
	if n, err := strconv.Atoi(wrmp); err == nil {
		inst.roamingPref = RoamingPref(n)
	}
	prl, _ := inst.nvGet(nvram.KeyPrlVersion, "0")
	inst.prlVersion, _ = strconv.Atoi(prl)

	smsc, _ := inst.nvGet(nvram.KeyModemSmscAddress, defaultSMSC)
	inst.smscAddress = smsc

	if featureHoldDefault {
		inst.features |= FeatureHold
	}
}

const dataNetworkUMTS = 3 // A_DATA_NETWORK_UMTS, reproduced from android_modem.c's enum ordinal.

func techFromString(s string) Technology {
	switch s {
	case "gsm":
		return TechGSM
	case "wcdma":
		return TechWCDMA
	case "cdma":
		return TechCDMA
	case "evdo":
		return TechEVDO
	case "lte":
		return TechLTE
	default:
		return TechGSM
	}
}

func mccMnc(mcc, mnc int) string {
	return padNum(mcc, 3) + padNum(mnc, 2)
}

func padNum(n, width int) string {
	s := itoaSimple(n)
	for len(s) < width {
		s = "0" + s
	}
	return s
}

func itoaSimple(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [12]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// lock/unlock/checkLock mirror vmodem.Modem's defensive-assertion idiom:
// every method that touches shared state must run inside the instance's
// critical section, and checkLock panics immediately if that invariant is
// ever violated by a future change, rather than silently racing.
func (inst *Instance) lock() {
	inst.mu.Lock()
	inst.locked = true
}

func (inst *Instance) unlock() {
	inst.locked = false
	inst.mu.Unlock()
}

func (inst *Instance) checkLock() {
	if !inst.locked {
		panic("basebandsim: method invoked without holding the instance lock")
	}
}

// Send is the command router's contract (§4.1): send(cmd) -> wait_sms.
// cmd is a complete AT line. Lines not starting with "AT" are silently
// ignored, per source behavior: no reply is produced at all. A bare "AT"
// dispatches against the table's empty-remainder entry, which answers OK
// (standard Hayes autobaud-probe behavior).
func (inst *Instance) Send(cmd string) bool {
	inst.lock()
	defer inst.unlock()

	if inst.waitSMS {
		inst.waitSMS = false
		inst.handleSMSBody(cmd)
		return inst.waitSMS
	}
	if !strings.HasPrefix(cmd, "AT") {
		return inst.waitSMS
	}
	rest := cmd[2:]
	inst.table.Dispatch(inst, rest, func(literal string) {
		inst.framer.Begin()
		inst.framer.Add("%s", literal)
		inst.framer.EndAsReply()
	})
	return inst.waitSMS
}

// Close releases every resource this instance owns: it cancels all
// outstanding RemoteCalls it originated and stops every call's pending
// timer before unregistering from the peer registry. This fixes the
// source's documented leak (§9 Open Question: "amodem_destroy does not
// release timers or outstanding remote calls").
func (inst *Instance) Close() error {
	inst.lock()
	if inst.closed {
		inst.unlock()
		return nil
	}
	inst.closed = true
	for _, c := range inst.calls.All() {
		if c.CancelTimer != nil {
			c.CancelTimer()
		}
	}
	inst.unlock()

	inst.relayReg.CloseAll(inst.instanceID, inst.ownNumber())
	inst.peers.unregister(inst)
	return nil
}

func (inst *Instance) ownNumber() string {
	if n := relay.FromModem(inst.basePort, inst.instanceID); n >= 0 {
		return itoaSimple(n)
	}
	return ""
}

// BasePort and InstanceID identify this instance for the relay (§4.7).
func (inst *Instance) BasePort() int   { return inst.basePort }
func (inst *Instance) InstanceID() int { return inst.instanceID }

func (inst *Instance) nvGet(key, def string) (string, bool) {
	if inst.nv == nil {
		return def, false
	}
	v, ok := inst.nv.Get(key, def)
	if !ok {
		_ = inst.nv.Set(key, def)
	}
	return v, ok
}

func (inst *Instance) nvSet(key, value string) {
	if inst.nv == nil {
		return
	}
	_ = inst.nv.Set(key, value)
}
