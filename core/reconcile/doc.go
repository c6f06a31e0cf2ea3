// Package reconcile provides the keyed set diff behind catalog reconciliation.
//
// BuildPlan compares a stored set against an incoming set and produces the
// minimal list of actions that turns one into the other:
//
//   - keys only in the incoming set become ActionCreate
//   - keys in both sets whose Compare reports differences become ActionUpdate
//   - keys only in the stored set become ActionDelete
//
// Planning is pure; applying a plan is the caller's job, usually inside one
// database transaction so that a partially applied plan is never visible.
//
// # Usage Example
//
//	spec := reconcile.Spec[catalog.Barcode]{
//	    Key: func(b catalog.Barcode) string { return b.Value },
//	    Compare: func(db, feed catalog.Barcode) []string {
//	        if db.Quantity != feed.Quantity {
//	            return []string{reconcile.Mismatch("quantity", db.Quantity, feed.Quantity)}
//	        }
//	        return nil
//	    },
//	}
//	plan := reconcile.BuildPlan(spec, stored, incoming)
package reconcile
