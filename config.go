package basebandsim

import (
	"log/slog"

	"github.com/basebandsim/basebandsim/internal/pdp"
	"github.com/basebandsim/basebandsim/internal/relay"
	"github.com/basebandsim/basebandsim/internal/smscodec"
)

// InstanceConfig configures one emulated ModemInstance, generalizing
// vmodem.ModemConfig's plain-struct-with-validate/setDefaults shape from
// a single TTY to a (BasePort, InstanceID) baseband instance.
type InstanceConfig struct {
	// BasePort and InstanceID together address this instance for the
	// cross-instance relay (§4.7) and name its NV-RAM file (§4.8).
	BasePort   int
	InstanceID int

	// Unsol receives every unsolicited notification and the reply to every
	// command, each already terminated per §4.2's framing rules. This is
	// the "consumer-supplied asynchronous callback" spec.md §4.2 puts out
	// of scope.
	Unsol func(text string)

	// NVRAMDir is the directory persisted key/value files are written
	// under. If empty, persistence is skipped and every key uses its
	// documented default every time (useful for tests).
	NVRAMDir string

	// Peers is the in-process peer registry used to resolve a local
	// relay address without going over TCP (§4.6, §9: "in-process peer
	// registry" is one of the two truly global objects). Required.
	Peers *PeerRegistry

	// DataPool is the shared rmnet.* DataLink pool (§3 Ownership, §9).
	// Required.
	DataPool *pdp.Pool

	// Relay dials outbound cross-instance connections (§4.7). Defaults to
	// relay.NewRegistry(relay.NetDialer{}) if nil.
	Relay *relay.Registry

	// Codec implements the SMS PDU collaborator (§1, §4.6). Defaults to
	// smscodec.New() if nil.
	Codec smscodec.Codec

	// Sim and Supplementary are the two narrow out-of-scope collaborators
	// (§1). Default to an in-memory implementation (sim.go,
	// supplementary.go) if nil.
	Sim           SimCard
	Supplementary SupplementaryStore

	// FeatureHold seeds the FeatureHold bit (§3 FeatureMask); defaults to
	// enabled, matching amodem_reset's A_MODEM_FEATURE_HOLD default.
	FeatureHold *bool

	// SimPIN/SimPUK seed the default in-memory SimCard when Sim is nil.
	SimPIN, SimPUK string

	// Logger defaults to slog.Default(). NewInstance does not keep it and
	// the Instance never logs (the core stays logging-free, matching
	// vmodem.Modem — see SPEC_FULL.md's AMBIENT STACK).
	Logger *slog.Logger
}

func (c *InstanceConfig) validate() error {
	if c.Peers == nil || c.DataPool == nil {
		return ErrConfigRequired
	}
	return nil
}

func (c *InstanceConfig) setDefaults() {
	if c.Unsol == nil {
		c.Unsol = func(string) {}
	}
	if c.Relay == nil {
		c.Relay = relay.NewRegistry(relay.NetDialer{})
	}
	if c.Codec == nil {
		c.Codec = smscodec.New()
	}
	if c.Sim == nil {
		c.Sim = NewSimCard(c.SimPIN, c.SimPUK)
	}
	if c.Supplementary == nil {
		c.Supplementary = NewSupplementaryStore()
	}
	if c.FeatureHold == nil {
		on := true
		c.FeatureHold = &on
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
