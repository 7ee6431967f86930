// Package model defines the row representation shared between the lookup
// executor and the surrounding engine.
//
// # Schema Types
//
//   - Type: logical field type (string, boolean, integer, float, timestamp, date)
//   - Field: (name, type) pair
//   - Schema: ordered physical row layout with by-name lookup
//
// # Data Types
//
//   - Row: positional value container in the engine's internal representation
//
// Internal representations are fixed per logical type (see Type docs). The
// External function converts an internal value into an externally comparable
// value suitable for query construction; RowFromDocument converts a decoded
// document body back into a Row.
package model
