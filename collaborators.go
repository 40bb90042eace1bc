package basebandsim

// SimStatus mirrors original_source/telephony/sim_card.h's ASimStatus,
// the narrow external collaborator spec.md §1 calls out as "the SIM card
// model... accessed through a narrow capability set".
type SimStatus int

const (
	SimAbsent SimStatus = iota
	SimNotReady
	SimReady
	SimPIN
	SimPUK
	SimNetworkPersonalization
)

// SimCard is the narrow capability set the AT handlers for +CPIN/+CPINR
// need. A real implementation of this interface is out of scope of this
// repository per spec.md §1; basebandsim ships a minimal in-memory one
// (see sim.go) so the dispatch table and its tests have something to
// exercise.
type SimCard interface {
	Status() SimStatus
	SetStatus(SimStatus)
	SetPower(on bool)
	CheckPIN(pin string) bool
	CheckPUK(puk, newPIN string) bool
	PINRetries() int
	PUKRetries() int
}

// SupplementaryStore is the narrow collaborator for call-forwarding,
// call-barring and facility-password state spec.md §1 declares out of
// scope ("the supplementary-services store"). basebandsim ships a
// minimal in-memory implementation (see supplementary.go).
type SupplementaryStore interface {
	// ForwardGet returns the stored forwarding number for (reason, classx),
	// or "" if none is set.
	ForwardGet(reason, classx int) string
	// ForwardSet stores (or clears, with number == "") a forwarding number.
	ForwardSet(reason, classx int, number string)
	// BarringEnabled reports whether a barring facility is active for a
	// service class.
	BarringEnabled(facility string, classx int) bool
	// SetBarring enables/disables a barring facility for a service class.
	SetBarring(facility string, classx int, enabled bool, password string) bool
	// CheckPassword validates a facility's current password.
	CheckPassword(facility, password string) bool
	// ChangePassword updates a facility's password after validating oldPassword.
	ChangePassword(facility, oldPassword, newPassword string) bool
}
