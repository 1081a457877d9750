package access

import (
	"fmt"

	"github.com/leapstack-labs/leapdal/pkg/core"
	"github.com/leapstack-labs/leapdal/pkg/driver"
)

// assemblerState tracks where the reassembly engine is in the flat driver
// stream.
type assemblerState int

const (
	// awaitingMeta means no result set has been announced yet.
	awaitingMeta assemblerState = iota
	// inSet means a metadata marker has been seen and data chunks belong to
	// the announced set.
	inSet
)

// assembler reassembles the driver's flat notification stream into labeled
// packets. Set boundaries are reconstructed purely from metadata-marker
// presence; chunk boundaries are trusted as delivered, never re-split or
// coalesced.
type assembler struct {
	// labels maps set index to table name or alias. A single-label list
	// labels every set (single-table callers); longer lists are
	// index-aligned with multi-select specifications.
	labels []string

	// raw attaches the active set's column descriptors to every emitted
	// packet and delivers positional values.
	raw bool

	// forwardMeta re-emits metadata markers as meta-only packets (the
	// per-row streaming path wants its leading metadata notification;
	// packet consumers do not).
	forwardMeta bool

	state assemblerState
	meta  []core.Column
}

func newAssembler(labels []string, raw, forwardMeta bool) *assembler {
	return &assembler{labels: labels, raw: raw, forwardMeta: forwardMeta, state: awaitingMeta}
}

// consume processes one driver notification, emitting zero or one packets.
func (a *assembler) consume(n driver.Notification, fn func(core.Packet) error) error {
	if n.IsMeta() {
		a.meta = n.Meta
		a.state = inSet
		if a.forwardMeta {
			return fn(core.Packet{Table: a.label(n.Set), Set: n.Set, Meta: n.Meta})
		}
		return nil
	}

	if a.state != inSet {
		return fmt.Errorf("malformed driver stream: data chunk before metadata marker")
	}

	p := core.Packet{Table: a.label(n.Set), Set: n.Set}
	if a.raw {
		p.Meta = a.meta
		p.Values = n.Values
	} else {
		p.Rows = n.Rows
	}
	return fn(p)
}

// label resolves the table name or alias for a set index.
func (a *assembler) label(set int) string {
	if len(a.labels) == 1 {
		return a.labels[0]
	}
	if set >= 0 && set < len(a.labels) {
		return a.labels[set]
	}
	return fmt.Sprintf("set_%d", set)
}
