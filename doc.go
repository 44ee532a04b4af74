// Package sqlmap holds the runtime types referenced by code that the
// sqlmap generator emits: the generic mapper and key holder interfaces,
// the example (criteria) builder and the errors mapper implementations
// are expected to return.
//
// The generator itself lives under compiler/gen; the command line entry
// point is cmd/sqlmap.
package sqlmap
