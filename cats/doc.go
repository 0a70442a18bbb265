// Package cats is the entry point of typecats: structuring loosely typed data
// into declared records, and back.
//
// A Cat is a record type declared on a converter:
//
//	var Users = cats.MustDeclare[User]()
//
//	u, err := Users.Struc(map[string]any{"name": "bob"})
//	m := Users.Unstruc(u, cats.WithStripDefaults())
//
// Required fields of declared records must not be empty. Structs embedding
// Wildcat keep the keys they do not declare and give them back on
// unstructuring. Every structuring failure belongs to one error family (see
// package diagnostic) and carries the type path that led to it.
package cats
