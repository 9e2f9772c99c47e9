package zone

import "testing"

func TestUniqueZonesDontAlias(t *testing.T) {
	Reset(0)
	a := Unique()
	b := Unique()
	if MayAlias(a, b) {
		t.Fatal("two Unique() zones alias each other")
	}
}

func TestZoneAliasesItself(t *testing.T) {
	Reset(0)
	a := Unique()
	if !MayAlias(a, a) {
		t.Fatal("a zone does not alias itself")
	}
}

func TestOfSamePointerAliases(t *testing.T) {
	a := Of(42)
	b := Of(42)
	if !MayAlias(a, b) {
		t.Fatal("Of(42) does not alias Of(42)")
	}
}

func TestUnionAliasesBothConstituents(t *testing.T) {
	Reset(0)
	a := Unique()
	b := Unique()
	u := Union(a, b)
	if !MayAlias(u, a) || !MayAlias(u, b) {
		t.Fatal("Union(a, b) does not alias one of its constituents")
	}

	c := Unique()
	if MayAlias(u, c) {
		t.Fatal("Union(a, b) aliases an unrelated zone")
	}
}

func TestResetRestartsIdentityAllocation(t *testing.T) {
	Reset(100)
	a := Unique()
	Reset(100)
	b := Unique()
	if !MayAlias(a, b) {
		t.Fatal("Reset to the same base did not reproduce the same identity")
	}
}
