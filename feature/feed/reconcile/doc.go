// Package reconcile applies decoded feed records to the product catalog.
//
// For each record the Engine resolves the product identity (code, else oldCode)
// and then:
//
//   - disbarred "1": deactivates the matching active products, never deletes
//   - disbarred "0" with a code: creates the product, or diffs its fields and
//     its barcode set (keyed by barcode value) and applies every change in one
//     store transaction
//   - anything else: skipped without touching the store
//
// Store failures are returned as *ReconciliationError after the record's
// transaction has rolled back; records applied earlier stay committed.
package reconcile
