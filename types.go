package basebandsim

import "fmt"

// RadioState is the modem's power state (§3).
type RadioState int

const (
	RadioOff RadioState = iota
	RadioOn
)

// Technology is the active radio access technology.
type Technology int

const (
	TechGSM Technology = iota
	TechWCDMA
	TechCDMA
	TechEVDO
	TechLTE
	TechUnknown
)

func (t Technology) String() string {
	switch t {
	case TechGSM:
		return "gsm"
	case TechWCDMA:
		return "wcdma"
	case TechCDMA:
		return "cdma"
	case TechEVDO:
		return "evdo"
	case TechLTE:
		return "lte"
	default:
		return "unknown"
	}
}

// preferredMasks reproduces the source's preferred_masks[] table,
// including its documented operator-precedence quirk on the GSM/WCDMA
// entry, preserved bit-for-bit per spec.md §9's Open Question decision
// (see DESIGN.md / SPEC_FULL.md "OPEN QUESTION DECISIONS" #1): the source
// computes `(1 << A_TECH_WCDMA + A_TECH_PREFERRED)` where `+` binds
// before `<<`, i.e. it shifts 1 left by (A_TECH_WCDMA + A_TECH_PREFERRED)
// rather than by A_TECH_WCDMA with A_TECH_PREFERRED added to the result.
// gsmWCDMAMaskQuirk below reproduces that exact arithmetic.
const techPreferredShift = 8 // one tier is 8 bits wide, per android_modem.c

func techBit(tech Technology, tier int) uint32 {
	return 1 << (uint(tech) + uint(tier)*techPreferredShift)
}

// gsmWCDMAMaskQuirk reproduces `(1 << A_TECH_GSM) | (1 << A_TECH_WCDMA + A_TECH_PREFERRED)`
// bit for bit: the right operand shifts 1 by (TechWCDMA + techPreferredShift),
// not by TechWCDMA with techPreferredShift added as a separate OR'd bit.
func gsmWCDMAMaskQuirk() uint32 {
	return (1 << uint(TechGSM)) | (1 << (uint(TechWCDMA) + techPreferredShift))
}

// preferredMasks are the canonical named preferred-technology masks
// AT+CTEC=?,  handleTech and _amodem_switch_technology select among.
var preferredMasks = map[string]uint32{
	"gsm":         techBit(TechGSM, 0),
	"wcdma":       techBit(TechWCDMA, 0),
	"gsm/wcdma":   gsmWCDMAMaskQuirk(),
	"cdma/evdo":   techBit(TechCDMA, 0) | techBit(TechEVDO, 0),
	"cdma":        techBit(TechCDMA, 0),
	"evdo":        techBit(TechEVDO, 0),
	"lte":         techBit(TechLTE, 0),
	"lte/cdma/evdo": techBit(TechLTE, 0) | techBit(TechCDMA, 1) | techBit(TechEVDO, 1),
}

// FeatureMask is the modem's optional-behavior bitmap (§3).
type FeatureMask uint32

const (
	FeatureHold FeatureMask = 1 << iota
)

// SubscriptionSource is the CDMA RUIM/NV subscription source.
type SubscriptionSource int

const (
	SubscriptionRUIM SubscriptionSource = iota
	SubscriptionNV
)

// RoamingPref is the CDMA roaming preference.
type RoamingPref int

const (
	RoamingPrefHome RoamingPref = iota
	RoamingPrefAffiliated
	RoamingPrefAny
)

// cmeError formats a +CME ERROR: N line body (without framing).
func cmeError(code int) string {
	return fmt.Sprintf("+CME ERROR: %d", code)
}

// 3GPP 27.007 +CME ERROR codes this core distinguishes (§6).
const (
	cmeOperationNotAllowed   = 3
	cmeNotSupported          = 4
	cmeWrongPassword         = 16
	cmeNoNetwork             = 30
	cmeNotAllowed            = 32
	cmeIncorrectParameters   = 50
	cmeActivationRejected    = 131
	cmeServiceOutOfOrder     = 134
	cmeUnknownPDPContext     = 143
	cmeOperatorSelectFailure = 529
)
