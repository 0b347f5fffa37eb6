package parties

// Filter selects parties by role on the directory page.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterCustomer Filter = "customer"
	FilterSupplier Filter = "supplier"
)

// ParseFilter maps a query value to a Filter, defaulting to FilterAll.
func ParseFilter(v string) Filter {
	switch Filter(v) {
	case FilterCustomer:
		return FilterCustomer
	case FilterSupplier:
		return FilterSupplier
	default:
		return FilterAll
	}
}

// Matches reports whether a party with role r belongs under f.
func (f Filter) Matches(r Role) bool {
	switch f {
	case FilterCustomer:
		return r == RoleCustomer || r == RoleBoth
	case FilterSupplier:
		return r == RoleSupplier || r == RoleBoth
	default:
		return true
	}
}

// Directory holds a loaded party list. Filtering never mutates it.
type Directory struct {
	parties []PartyWithTotals
}

// NewDirectory wraps an already loaded list.
func NewDirectory(list []PartyWithTotals) Directory {
	return Directory{parties: list}
}

// All returns a copy of the full list.
func (d Directory) All() []PartyWithTotals {
	out := make([]PartyWithTotals, len(d.parties))
	copy(out, d.parties)
	return out
}

// Filter returns the parties matching f in their original order.
func (d Directory) Filter(f Filter) []PartyWithTotals {
	if f == FilterAll {
		return d.All()
	}
	out := make([]PartyWithTotals, 0, len(d.parties))
	for _, p := range d.parties {
		if f.Matches(p.Role) {
			out = append(out, p)
		}
	}
	return out
}

// Counts returns the number of parties under each filter.
func (d Directory) Counts() map[Filter]int {
	counts := map[Filter]int{FilterAll: len(d.parties)}
	for _, p := range d.parties {
		if FilterCustomer.Matches(p.Role) {
			counts[FilterCustomer]++
		}
		if FilterSupplier.Matches(p.Role) {
			counts[FilterSupplier]++
		}
	}
	return counts
}
