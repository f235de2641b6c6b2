// Package core reconciles two snapshots of an iteration's work items.
//
// It is independent of any UI or transport layer and is used by the web
// handlers, the CLI and tests alike.
//
// # Pipeline
//
//   - Parse: [ParseFile] turns a .csv, .tsv or .xlsx file into an ordered
//     []Record. Each row is first an untyped header -> value mapping, then
//     projected onto the fixed ten-field schema.
//   - Snapshot: [NewSnapshot] keeps the first record of every id.
//   - Reconcile: [Reconcile] splits two record sequences into removed,
//     added and matching by id.
//   - Export: [RenderTSV] renders a partition as a raw tab-delimited block
//     for the clipboard; [WriteCSV] renders a quoted download.
//
// # Sessions
//
// The web layer keeps one [Session] per browser in a [SessionStore]. A
// session holds the original and updated slots and the last [Result].
// Nothing is persisted; idle sessions are swept.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each category has a code for support reference:
//
//   - FILE001-FILE006: upload and delimited-text errors
//   - XLSX001-XLSX002: workbook errors
//   - SES001, RES001-RES005: session and result lookups
//   - UPL002-UPL005: parse slot and request errors
//   - CLIP001: clipboard failures reported by the browser
package core
