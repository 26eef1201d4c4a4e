// Package types defines the shared vocabulary of regkit: root hives,
// resolved addresses, value kinds and their native REG_* tags, value
// records, key snapshots and the typed error taxonomy.
//
// Design goals:
//   - Closed enumerations with exhaustive, static lookup tables.
//   - Raw value bytes are carried, never decoded.
//   - Typed errors with stable categories (invalid hive/store/unknown type/...).
//
// This package has no dependencies beyond the standard library.
package types
