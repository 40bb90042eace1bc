package basebandsim

import "sync"

// memSupplementary is a minimal in-memory SupplementaryStore, grounded
// on android_modem.c's handleCallForwardSetReq/handleFacilityLockReq/
// handleChangePassword field layout (reason/classx keyed records, a
// per-facility password). It exists so +CCFC/+CLCK/+CPWD have a default
// collaborator to exercise; production use is expected to supply its own.
type memSupplementary struct {
	mu        sync.Mutex
	forwards  map[fwKey]string
	barring   map[barKey]bool
	passwords map[string]string
}

type fwKey struct{ reason, classx int }
type barKey struct {
	facility string
	classx   int
}

const defaultFacilityPassword = "0000"

// NewSupplementaryStore builds an empty supplementary-services store with
// every facility password defaulted to "0000".
func NewSupplementaryStore() SupplementaryStore {
	return &memSupplementary{
		forwards:  map[fwKey]string{},
		barring:   map[barKey]bool{},
		passwords: map[string]string{},
	}
}

func (s *memSupplementary) ForwardGet(reason, classx int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forwards[fwKey{reason, classx}]
}

func (s *memSupplementary) ForwardSet(reason, classx int, number string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if number == "" {
		delete(s.forwards, fwKey{reason, classx})
		return
	}
	s.forwards[fwKey{reason, classx}] = number
}

func (s *memSupplementary) BarringEnabled(facility string, classx int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.barring[barKey{facility, classx}]
}

func (s *memSupplementary) SetBarring(facility string, classx int, enabled bool, password string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.checkPasswordLocked(facility, password) {
		return false
	}
	s.barring[barKey{facility, classx}] = enabled
	return true
}

func (s *memSupplementary) CheckPassword(facility, password string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkPasswordLocked(facility, password)
}

func (s *memSupplementary) checkPasswordLocked(facility, password string) bool {
	want, ok := s.passwords[facility]
	if !ok {
		want = defaultFacilityPassword
	}
	return password == want
}

func (s *memSupplementary) ChangePassword(facility, oldPassword, newPassword string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.checkPasswordLocked(facility, oldPassword) {
		return false
	}
	s.passwords[facility] = newPassword
	return true
}
