package basebandsim

import "errors"

// Of the sentinels below, only ErrConfigRequired is returned by code in
// this module; the others name conditions that the AT handlers report as
// +CME ERROR replies or boolean results instead, and no function returns
// them.
var (
	// ErrConfigRequired is returned by NewInstance when the supplied
	// InstanceConfig is missing a required collaborator.
	ErrConfigRequired = errors.New("basebandsim: config is required")

	// ErrNilContext names a nil context.Context passed where a valid one
	// is required.
	ErrNilContext = errors.New("basebandsim: context is nil")

	// ErrCallTableFull names an outbound or inbound call that cannot be
	// allocated because all 7 call-table slots are occupied.
	ErrCallTableFull = errors.New("basebandsim: call table is full")

	// ErrUnknownCall names an operation on a call id that is not present
	// in the call table.
	ErrUnknownCall = errors.New("basebandsim: unknown call id")

	// ErrNoDataLink names a process-wide DataLink pool with no free slot
	// to bind to an activating PDP context.
	ErrNoDataLink = errors.New("basebandsim: no free data link")

	// ErrUnknownPDPContext names a reference to a PDP context id outside
	// [1, MaxDataContexts].
	ErrUnknownPDPContext = errors.New("basebandsim: unknown PDP context id")

	// ErrBadSnapshotVersion names an on-disk snapshot version byte that
	// does not match the version this build writes. snapshot.Load reports
	// that case with its own snapshot.ErrVersionMismatch.
	ErrBadSnapshotVersion = errors.New("basebandsim: snapshot version mismatch")

	// ErrNVRAMMissingKey names a required NV-RAM key that is absent and
	// has no documented default.
	ErrNVRAMMissingKey = errors.New("basebandsim: nvram key missing")

	// ErrInstanceClosed names use of an Instance after Close. Instance
	// methods called after Close do not report it.
	ErrInstanceClosed = errors.New("basebandsim: instance is closed")

	// ErrRemoteSelf names a dial or SMS that resolves to the originating
	// instance's own relay address.
	ErrRemoteSelf = errors.New("basebandsim: cannot relay to self")

	// ErrBadRemoteAddress names a number that does not decode to a valid
	// relay (port, instance) pair.
	ErrBadRemoteAddress = errors.New("basebandsim: not a valid relay address")
)
