// Package nvram implements the persistent configuration store (§4.8): a
// small set of keys, scoped to one (base_port, instance_id) pair, backed
// by a flush-on-write file, with documented defaults for any missing key.
package nvram

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/pkg/errors"
)

// Key names, reproduced verbatim from the source's NV_* string constants
// so an on-disk store created by this package stays legible against the
// original's key vocabulary.
const (
	KeyOperNameIndex       = "oper_name_index"
	KeyOperIndex           = "oper_index"
	KeySelectionMode       = "selection_mode"
	KeyOperCount           = "oper_count"
	KeyModemTechnology     = "modem_technology"
	KeyPreferredMode       = "preferred_mode"
	KeyCdmaSubscription    = "cdma_subscription_source"
	KeyCdmaRoamingPref     = "cdma_roaming_pref"
	KeyInEcbm              = "in_ecbm"
	KeyEmergencyNumberFmt  = "emergency_number_%d"
	KeyPrlVersion          = "prl_version"
	KeySregister           = "sregister"
	KeyModemSmscAddress    = "smsc_address"
)

// EmergencyNumberKey formats the indexed emergency-number key (indices
// 1..15 — index 0 is the hardwired "911" and is never persisted).
func EmergencyNumberKey(i int) string {
	return fmt.Sprintf(KeyEmergencyNumberFmt, i)
}

// Store is a flush-on-write key/value file scoped to one instance.
type Store struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// Open loads (or creates) the NV-RAM file at path. A missing file is not
// an error — Store starts empty and Get falls back to caller-supplied
// defaults, per §4.8 ("missing keys take documented defaults and are
// written back").
func Open(path string) (*Store, error) {
	s := &Store{path: path, data: map[string]string{}}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errors.Wrapf(err, "nvram: reading %s", path)
	}
	if len(b) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(b, &s.data); err != nil {
		return nil, errors.Wrapf(err, "nvram: decoding %s", path)
	}
	return s, nil
}

// Get returns the stored value for key, or def plus false if the key is
// absent. The caller is expected to immediately persist the default via
// Set when false is returned, matching the source's load-then-write-back
// behavior.
func (s *Store) Get(key, def string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return def, false
	}
	return v, true
}

// Set stores a value and flushes the whole file (§4.8: "Mutations are
// flush-on-write").
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return s.flushLocked()
}

func (s *Store) flushLocked() error {
	b, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return errors.Wrap(err, "nvram: encoding store")
	}
	if err := os.WriteFile(s.path, b, 0o600); err != nil {
		return errors.Wrapf(err, "nvram: writing %s", s.path)
	}
	return nil
}

// FileName builds the conventional NV-RAM file name for an instance,
// mirroring the source's "modem-nv-ram-<base_port>-<instance_id>".
func FileName(dir string, basePort, instanceID int) string {
	return fmt.Sprintf("%s/modem-nv-ram-%d-%d", dir, basePort, instanceID)
}
