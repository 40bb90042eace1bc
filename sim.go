package basebandsim

import "sync"

// memSimCard is a minimal in-memory SimCard, grounded on
// original_source/telephony/sim_card.h's ASimStatus/retry-counter
// contract (A_SIM_PIN_RETRIES=3, A_SIM_PUK_RETRIES=6). It exists so the
// dispatch table has a default collaborator to exercise; production use
// is expected to supply its own SimCard.
type memSimCard struct {
	mu          sync.Mutex
	status      SimStatus
	pin, puk    string
	pinRetries  int
	pukRetries  int
	powered     bool
}

const (
	defaultPINRetries = 3
	defaultPUKRetries = 6
)

// NewSimCard builds a ready, unlocked SimCard with the given PIN/PUK.
func NewSimCard(pin, puk string) SimCard {
	return &memSimCard{
		status:     SimReady,
		pin:        pin,
		puk:        puk,
		pinRetries: defaultPINRetries,
		pukRetries: defaultPUKRetries,
	}
}

func (s *memSimCard) Status() SimStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *memSimCard) SetStatus(st SimStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = st
}

func (s *memSimCard) SetPower(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.powered = on
	if !on {
		s.status = SimAbsent
	}
}

func (s *memSimCard) CheckPIN(pin string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pin == s.pin {
		s.pinRetries = defaultPINRetries
		s.status = SimReady
		return true
	}
	if s.pinRetries > 0 {
		s.pinRetries--
	}
	if s.pinRetries == 0 {
		s.status = SimPUK
	}
	return false
}

func (s *memSimCard) CheckPUK(puk, newPIN string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if puk != s.puk {
		if s.pukRetries > 0 {
			s.pukRetries--
		}
		return false
	}
	s.pin = newPIN
	s.pinRetries = defaultPINRetries
	s.pukRetries = defaultPUKRetries
	s.status = SimReady
	return true
}

func (s *memSimCard) PINRetries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pinRetries
}

func (s *memSimCard) PUKRetries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pukRetries
}
