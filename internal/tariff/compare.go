package tariff

import "fmt"

// ComparisonEntry is one bill's standing in a comparison.
type ComparisonEntry struct {
	Name      string  `json:"name"`
	Scheme    Scheme  `json:"scheme"`
	TotalBill float64 `json:"total_bill"`
	// Delta is how much more this bill costs than the cheapest.
	Delta float64 `json:"delta"`
}

// Comparison ranks bills against the cheapest one.
type Comparison struct {
	Cheapest string            `json:"cheapest"`
	Entries  []ComparisonEntry `json:"entries"`
}

// Compare finds the cheapest bill and each bill's difference from it. Entries
// keep the input order. When several bills share the lowest total, the one
// that comes first in bills wins.
func Compare(bills []Bill) (Comparison, error) {
	if len(bills) == 0 {
		return Comparison{}, ErrNoBills
	}
	seen := make(map[string]bool, len(bills))
	cheapest := 0
	for i, b := range bills {
		if seen[b.Name] {
			return Comparison{}, fmt.Errorf("%w: %q", ErrDuplicateBill, b.Name)
		}
		seen[b.Name] = true
		if b.TotalBill < bills[cheapest].TotalBill {
			cheapest = i
		}
	}

	lowest := bills[cheapest].TotalBill
	c := Comparison{
		Cheapest: bills[cheapest].Name,
		Entries:  make([]ComparisonEntry, len(bills)),
	}
	for i, b := range bills {
		c.Entries[i] = ComparisonEntry{
			Name:      b.Name,
			Scheme:    b.Scheme,
			TotalBill: b.TotalBill,
			Delta:     b.TotalBill - lowest,
		}
	}
	return c, nil
}

// Delta returns the named bill's difference from the cheapest.
func (c Comparison) Delta(name string) (float64, bool) {
	for _, e := range c.Entries {
		if e.Name == name {
			return e.Delta, true
		}
	}
	return 0, false
}
