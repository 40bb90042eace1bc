// Package pdp implements PDP (packet-data) context lifecycle: definition,
// activation/deactivation against a shared DataLink pool, and the query
// forms AT+CGACT?/+CGDCONT?/+CGCONTRDP report (§4.5).
package pdp

import "net/netip"

// MaxContexts is the PDP context table size (§3: "indexed 1..4").
const MaxContexts = 4

// Type is the PDP context bearer type. Only IP is ever accepted by
// +CGDCONT=, but PPP is part of the data model's declared type.
type Type int

const (
	IP Type = iota
	PPP
)

// Context is one PDP context slot. ID == -1 means undefined; otherwise ID
// equals the slot's 1-based position.
type Context struct {
	ID     int
	Active bool
	Type   Type
	APN    string
	Addr   netip.Addr
	Link   *DataLink
}

// DataLink is one virtual network interface from the process-wide
// rmnet.* pool (§3: "Associated at activation with a DataLink... named
// rmnet.*"). DataLink objects are shared by reference and process-wide;
// Pool is the only thing that constructs them.
type DataLink struct {
	Name    string // e.g. "rmnet.0"
	Local   netip.Addr
	Gateway netip.Addr
	DNS     [2]netip.Addr
	up      bool
	bound   *Context
}

// BearerID is the reported +CGCONTRDP bearer id: the rmnet.<n> suffix.
func (d *DataLink) BearerID() string {
	for i := len(d.Name) - 1; i >= 0; i-- {
		if d.Name[i] == '.' {
			return d.Name[i+1:]
		}
	}
	return d.Name
}

// Pool is the process-wide DataLink pool shared by every ModemInstance in
// the process (§3 Ownership, §9 "Shared global state").
type Pool struct {
	links []*DataLink
}

// NewPool builds a pool of n DataLinks with sequential local addresses
// derived from base, sharing one gateway and up to two DNS servers,
// mirroring amodem_init_rmnets's sequential-IP assignment.
func NewPool(n int, base, gateway netip.Addr, dns [2]netip.Addr) *Pool {
	p := &Pool{}
	b := base.As4()
	for i := 0; i < n; i++ {
		addr := b
		addr[3] += byte(i)
		p.links = append(p.links, &DataLink{
			Name:    linkName(i),
			Local:   netip.AddrFrom4(addr),
			Gateway: gateway,
			DNS:     dns,
		})
	}
	return p
}

func linkName(i int) string {
	const digits = "0123456789"
	if i < 10 {
		return "rmnet." + string(digits[i])
	}
	return "rmnet.N"
}

// Acquire returns the first unbound DataLink, or nil if the pool is
// exhausted (§4.5: "acquire a free DataLink from the pool (first-fit)").
func (p *Pool) Acquire(c *Context) *DataLink {
	for _, l := range p.links {
		if l.bound == nil {
			l.bound = c
			l.up = true
			return l
		}
	}
	return nil
}

// Release unbinds and brings down a DataLink, returning it to the pool.
func (p *Pool) Release(l *DataLink) {
	if l == nil {
		return
	}
	l.bound = nil
	l.up = false
}

// Table is the PDP context table owned by one ModemInstance.
type Table struct {
	Contexts [MaxContexts]Context
	pool     *Pool
}

// NewTable builds an all-undefined context table bound to the given
// shared pool.
func NewTable(pool *Pool) *Table {
	t := &Table{pool: pool}
	for i := range t.Contexts {
		t.Contexts[i].ID = -1
	}
	return t
}

// Define implements +CGDCONT= with an APN/addr (slot-1 indexed cid).
// Returns false if the slot is out of range or already active.
func (t *Table) Define(cid int, apn string, addr netip.Addr) bool {
	if cid < 1 || cid > MaxContexts {
		return false
	}
	c := &t.Contexts[cid-1]
	if c.Active {
		return false
	}
	c.ID = cid
	c.Type = IP
	c.APN = apn
	c.Addr = addr
	return true
}

// Undefine implements +CGDCONT=<cid> with no further arguments.
func (t *Table) Undefine(cid int) {
	if cid < 1 || cid > MaxContexts {
		return
	}
	t.Contexts[cid-1] = Context{ID: -1}
}

// Get returns the context at the given 1-based cid, or nil if out of
// range.
func (t *Table) Get(cid int) *Context {
	if cid < 1 || cid > MaxContexts {
		return nil
	}
	return &t.Contexts[cid-1]
}

// Activate implements the successful-path body of +CGACT=1,<cid> /
// D*99***<cid>#: idempotent if already active, else acquires a DataLink
// and brings it up. Returns false on pool exhaustion.
func (t *Table) Activate(cid int) bool {
	c := t.Get(cid)
	if c == nil || c.ID <= 0 {
		return false
	}
	if c.Active {
		return true
	}
	link := t.pool.Acquire(c)
	if link == nil {
		return false
	}
	c.Link = link
	c.Active = true
	return true
}

// Deactivate implements +CGACT=0,<cid> and the registration detach
// cascade: idempotent no-op if already inactive.
func (t *Table) Deactivate(cid int) {
	c := t.Get(cid)
	if c == nil || !c.Active {
		return
	}
	t.pool.Release(c.Link)
	c.Link = nil
	c.Active = false
}

// DeactivateAll tears down every active context (§4.4: "data detach
// cascade").
func (t *Table) DeactivateAll() {
	for i := range t.Contexts {
		t.Deactivate(i + 1)
	}
}
