// Package schema describes the relational facts the generator works from:
// tables, their columns in declaration order, the primary key and the
// JDBC type tag carried by every column.
//
// Tables are produced by the loaders in compiler/load and are immutable
// once Normalize has run.
package schema
