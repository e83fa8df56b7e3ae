// Package io reads name lists and writes parse outputs.
//
// # Input
//
// Plain input has one name per line. A blank line is a missing entry: it
// keeps its position in the batch and produces a missing output instead of a
// parse. Trailing carriage returns are dropped, so files with CRLF line
// endings read the same as LF files.
//
//	Homo sapiens Linnaeus, 1758
//
//	Aus bus
//
// reads as three entries, the second one missing.
//
// JSON input is an array of strings and nulls, the same shape the HTTP API
// accepts; null is a missing entry:
//
//	["Homo sapiens", null, "Aus bus"]
//
// # Output
//
// [Writer] writes one output per line, in input order. Tabular formats get a
// header line first. Missing and faulted slots are written as a placeholder
// line, empty by default, so line i of the output always belongs to entry i
// of the input.
package io
