// Package qfx converts brokerage activity exports (CSV or XLSX) into QFX
// investment statements, the OFX 1.02 SGML download format that personal
// finance applications import. It is designed to be deterministic and
// all-or-nothing: the same export always produces the same document, and a
// row that cannot be converted fails the whole run rather than silently
// dropping a transaction.
//
// The conversion is a single pass over the export:
//   - Reading: locating the header row inside the export preamble and
//     collecting activity rows until the first blank line.
//   - Normalization: cleaning currency and quantity cells into stable
//     decimal forms, and date cells into day values.
//   - Generation: dispatching each row on its activity label to the
//     statement block it becomes (trades, transfers, income, fees).
//   - Resolution: identifying every referenced security by CUSIP, or by
//     configured fallback rules when the export omits one, and collecting
//     the statement security list.
//   - Assembly: wrapping the generated blocks in the signon and statement
//     envelope and rendering the SGML document.
//
// This package serves as the foundational logic for the `qfx` command-line
// tool.
package qfx
