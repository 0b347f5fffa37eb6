package parties

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vr-inventory/vr-inventory/internal/ledger"
)

func sampleParties() []PartyWithTotals {
	return []PartyWithTotals{
		{Party: Party{ID: 1, Name: "Ravi", Role: RoleCustomer}},
		{Party: Party{ID: 2, Name: "Kumar Traders", Role: RoleSupplier}},
		{Party: Party{ID: 3, Name: "Anand", Role: RoleBoth}},
		{Party: Party{ID: 4, Name: "Meena", Role: RoleCustomer}},
	}
}

func ids(list []PartyWithTotals) []int64 {
	out := make([]int64, 0, len(list))
	for _, p := range list {
		out = append(out, p.ID)
	}
	return out
}

func TestParseFilter(t *testing.T) {
	require.Equal(t, FilterCustomer, ParseFilter("customer"))
	require.Equal(t, FilterSupplier, ParseFilter("supplier"))
	require.Equal(t, FilterAll, ParseFilter("all"))
	require.Equal(t, FilterAll, ParseFilter(""))
	require.Equal(t, FilterAll, ParseFilter("both"))
	require.Equal(t, FilterAll, ParseFilter("Customer"))
}

func TestDirectoryFilter(t *testing.T) {
	dir := NewDirectory(sampleParties())

	require.Equal(t, []int64{1, 2, 3, 4}, ids(dir.Filter(FilterAll)))
	require.Equal(t, []int64{1, 3, 4}, ids(dir.Filter(FilterCustomer)))
	require.Equal(t, []int64{2, 3}, ids(dir.Filter(FilterSupplier)))
}

func TestDirectoryFilterDoesNotMutate(t *testing.T) {
	list := sampleParties()
	dir := NewDirectory(list)

	first := dir.Filter(FilterSupplier)
	first[0].Name = "changed"
	_ = dir.Filter(FilterCustomer)
	all := dir.Filter(FilterAll)
	all[0].Name = "changed too"

	require.Equal(t, sampleParties(), dir.All())
	require.Equal(t, ids(dir.Filter(FilterSupplier)), ids(dir.Filter(FilterSupplier)))
}

func TestDirectoryEmpty(t *testing.T) {
	dir := NewDirectory(nil)
	require.Empty(t, dir.Filter(FilterCustomer))
	require.Empty(t, dir.All())
	require.Equal(t, 0, dir.Counts()[FilterAll])
}

func TestDirectoryCounts(t *testing.T) {
	counts := NewDirectory(sampleParties()).Counts()
	require.Equal(t, 4, counts[FilterAll])
	require.Equal(t, 3, counts[FilterCustomer])
	require.Equal(t, 2, counts[FilterSupplier])
}

func TestRoleForKind(t *testing.T) {
	require.Equal(t, RoleCustomer, RoleForKind(ledger.KindSale))
	require.Equal(t, RoleSupplier, RoleForKind(ledger.KindPurchase))
}

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "Ravi Kumar", NormalizeName("  Ravi   Kumar \t"))
	require.Equal(t, "", NormalizeName("   "))
	require.Equal(t, "ravi", NormalizeName("ravi"))
}
