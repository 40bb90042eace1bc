package voicecall

// Table is the call table owned by one ModemInstance.
type Table struct {
	calls      []*Call
	multiCount int
}

// Count returns the number of live calls.
func (t *Table) Count() int { return len(t.calls) }

// MultiCount returns the number of calls currently marked multiparty.
// Invariant (§8): MultiCount() ∈ {0} ∪ [2,5].
func (t *Table) MultiCount() int { return t.multiCount }

// All returns the live calls in table order. Callers must not mutate the
// slice; mutate individual *Call fields or use the Table methods instead.
func (t *Table) All() []*Call { return t.calls }

// Find returns the call with the given id, or nil.
func (t *Table) Find(id int) *Call {
	for _, c := range t.calls {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// FindByNumber returns the first call whose Number matches, or nil.
func (t *Table) FindByNumber(number string) *Call {
	for _, c := range t.calls {
		if c.Number == number {
			return c
		}
	}
	return nil
}

// FindByState returns the first call in the given state, or nil.
func (t *Table) FindByState(s State) *Call {
	for _, c := range t.calls {
		if c.State == s {
			return c
		}
	}
	return nil
}

// HasWaiting reports whether any call is currently WAITING — used by the
// AT+CHLD=1/2 promotion rule (§4.3).
func (t *Table) HasWaiting() bool {
	return t.FindByState(Waiting) != nil
}

// Alloc assigns the smallest positive integer not currently in use as the
// new call's id, appends it to the table and returns it. It returns nil
// if the table is already at MaxCalls. Like the source, it is a quadratic
// scan (each candidate id is looked up with Find), which costs nothing
// meaningful over a length-7 table (§4.3).
func (t *Table) Alloc(dir Direction, mode Mode, number string) *Call {
	if len(t.calls) >= MaxCalls {
		return nil
	}
	id := 1
	for t.Find(id) != nil {
		id++
	}
	c := &Call{ID: id, Dir: dir, Mode: mode, Number: number}
	t.calls = append(t.calls, c)
	return c
}

// Free removes a call from the table, canceling its timer, unsetting its
// multiparty membership, and reporting its FailCause for AT+CEER (§4.3:
// "amodem_free_call(call, cause)... destroys the timer, cancels any
// outstanding relay hang-up, unsets multiparty, removes from the table").
// Cancellation of any outstanding relay hang-up is the caller's
// responsibility (it requires the relay package, which voicecall does not
// depend on); Free only handles the call-table-local bookkeeping.
func (t *Table) Free(id int, cause FailCause) (lastCause FailCause, ok bool) {
	for i, c := range t.calls {
		if c.ID != id {
			continue
		}
		if c.CancelTimer != nil {
			c.CancelTimer()
		}
		if c.Multi {
			t.unsetMultiLocked(c)
		}
		t.calls = append(t.calls[:i], t.calls[i+1:]...)
		return cause, true
	}
	return 0, false
}

// SetMulti marks a call as joining the multiparty group.
func (t *Table) SetMulti(c *Call) {
	if c.Multi {
		return
	}
	c.Multi = true
	t.multiCount++
}

// UnsetMulti removes a call from the multiparty group. If doing so would
// leave exactly one member, that remaining member's bit is cleared too,
// preserving the {0} ∪ [2,5] invariant (§4.3, §8).
func (t *Table) UnsetMulti(c *Call) {
	if !c.Multi {
		return
	}
	t.unsetMultiLocked(c)
}

func (t *Table) unsetMultiLocked(c *Call) {
	c.Multi = false
	t.multiCount--
	if t.multiCount == 1 {
		for _, other := range t.calls {
			if other.Multi && other.Mode == Voice {
				other.Multi = false
				t.multiCount = 0
				break
			}
		}
	}
}
