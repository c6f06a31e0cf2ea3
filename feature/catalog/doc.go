// Package catalog owns the persistent product catalog.
//
// It defines the gorm models (Product with its Barcode children), the Store
// contract that reconciliation mutates through, and a read-only HTTP surface:
//
//	GET /products          list, filters ?code= ?active= ?limit= ?offset=
//	GET /products/:code    current product for a code
//
// Products are never hard deleted; a disbarred product is flagged inactive.
// All multi-statement writes go through Store.Transaction so partially applied
// changes are never visible to concurrent readers.
package catalog
