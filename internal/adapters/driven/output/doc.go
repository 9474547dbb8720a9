// Package output provides artifact serialisation and persistence.
//
// Adapters:
//   - JSONSerialiser: versioned JSON encoding of scheme and diagrams-only outcomes
//   - FileWriter: atomic artifact writes (temp file, sync, rename)
package output
