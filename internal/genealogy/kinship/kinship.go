// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package kinship defines the closed set of relationship types between persons.

A relationship is a directed edge A→B read as "A is <kind> of B". Every kind
has exactly one inverse, and the relationship store keeps both directions:

	parent  ↔ child
	spouse  ↔ spouse
	sibling ↔ sibling
*/
package kinship

// Kind is the type tag of a relationship edge.
type Kind string

const (
	Parent  Kind = "parent"
	Child   Kind = "child"
	Spouse  Kind = "spouse"
	Sibling Kind = "sibling"
)

// Kinds lists every valid kind.
var Kinds = []Kind{Parent, Child, Spouse, Sibling}

// IsValid reports whether k is one of the known kinds.
func (k Kind) IsValid() bool {
	_, ok := k.Inverse()
	return ok
}

// Inverse returns the kind of the paired edge B→A for an edge A→B of kind k.
func (k Kind) Inverse() (Kind, bool) {
	switch k {
	case Parent:
		return Child, true
	case Child:
		return Parent, true
	case Spouse:
		return Spouse, true
	case Sibling:
		return Sibling, true
	default:
		return "", false
	}
}

// Strings returns the kinds as plain strings, for validation messages.
func Strings() []string {
	values := make([]string, len(Kinds))
	for i, kind := range Kinds {
		values[i] = string(kind)
	}
	return values
}
