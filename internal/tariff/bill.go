package tariff

import "encoding/json"

// Scheme identifies the tariff algorithm that produced a bill.
type Scheme string

const (
	SchemeFlat      Scheme = "Flat"
	SchemeTimeOfUse Scheme = "TOU"
	SchemeTiered    Scheme = "Tiered"
)

// Breakdown labels.
const (
	EnergyLabel   = "Energy"
	FixedFeeLabel = "Fixed Fee"
)

// Entry is one line of a bill breakdown.
type Entry struct {
	Label string  `json:"label"`
	KWh   float64 `json:"kwh"`
	Cost  float64 `json:"cost"`
}

// Breakdown is an ordered list of cost lines keyed by label. Lines keep the
// order in which they were first added.
type Breakdown struct {
	entries []Entry
	index   map[string]int
}

func (b *Breakdown) add(label string, kwh, cost float64) {
	if b.index == nil {
		b.index = make(map[string]int)
	}
	if i, ok := b.index[label]; ok {
		b.entries[i].KWh += kwh
		b.entries[i].Cost += cost
		return
	}
	b.index[label] = len(b.entries)
	b.entries = append(b.entries, Entry{Label: label, KWh: kwh, Cost: cost})
}

// Entries returns a copy of the lines in order.
func (b Breakdown) Entries() []Entry {
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Labels returns the line labels in order.
func (b Breakdown) Labels() []string {
	out := make([]string, len(b.entries))
	for i, e := range b.entries {
		out[i] = e.Label
	}
	return out
}

// Get returns the line with the given label.
func (b Breakdown) Get(label string) (Entry, bool) {
	i, ok := b.index[label]
	if !ok {
		return Entry{}, false
	}
	return b.entries[i], true
}

// Len returns the number of lines.
func (b Breakdown) Len() int {
	return len(b.entries)
}

// Total sums line costs in order.
func (b Breakdown) Total() float64 {
	var total float64
	for _, e := range b.entries {
		total += e.Cost
	}
	return total
}

// MarshalJSON encodes the lines as an ordered array.
func (b Breakdown) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Entries())
}

// Bill is the result of pricing a series under one plan.
//
// The fixed fee is always the last Breakdown line, labelled FixedFeeLabel, and
// TotalBill equals Breakdown.Total().
type Bill struct {
	Name      string    `json:"name"`
	Scheme    Scheme    `json:"scheme"`
	TotalKWh  float64   `json:"total_kwh"`
	Breakdown Breakdown `json:"breakdown"`
	FixedFee  float64   `json:"fixed_fee"`
	TotalBill float64   `json:"total_bill"`

	// Set by time-of-use plans without a default window for readings that
	// matched no window. These readings are not part of TotalBill.
	UnbilledKWh      float64 `json:"unbilled_kwh,omitempty"`
	UnbilledReadings int     `json:"unbilled_readings,omitempty"`
}

// Covered reports whether every reading contributed to the bill.
func (b Bill) Covered() bool {
	return b.UnbilledReadings == 0
}

func (b *Bill) finish(fixedFee float64) {
	b.FixedFee = fixedFee
	b.Breakdown.add(FixedFeeLabel, 0, fixedFee)
	b.TotalBill = b.Breakdown.Total()
}
