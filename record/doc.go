// Package record describes Go struct types as records: the mapping keys of
// their fields, defaults, literal fields and validators. A Catalog holds the
// descriptors a converter structures against; declaring a type through the
// catalog runs the non-empty pass over its required fields.
//
// Structs embedding Extras are wildcats: besides their declared fields they
// keep every undeclared key of the mapping they were structured from.
package record
