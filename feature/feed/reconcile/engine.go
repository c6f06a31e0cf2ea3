package reconcile

import (
	"context"
	"strings"

	"catalog-sync/core/reconcile"
	"catalog-sync/core/utils"
	"catalog-sync/feature/catalog"
	"catalog-sync/feature/feed/decode"

	"go.uber.org/zap"
)

// Outcome is what applying one record did to the catalog.
type Outcome string

const (
	OutcomeCreated     Outcome = "created"
	OutcomeUpdated     Outcome = "updated"
	OutcomeUnchanged   Outcome = "unchanged"
	OutcomeDeactivated Outcome = "deactivated"
	OutcomeSkipped     Outcome = "skipped"
)

// barcodeSpec diffs barcodes by value; only the quantity is mutable in place.
var barcodeSpec = reconcile.Spec[catalog.Barcode]{
	Key: func(b catalog.Barcode) string { return b.Value },
	Compare: func(db, feed catalog.Barcode) []string {
		if db.Quantity != feed.Quantity {
			return []string{reconcile.Mismatch("quantity", db.Quantity, feed.Quantity)}
		}
		return nil
	},
}

// Engine applies feed records to the catalog one at a time.
// Applying the same record twice leaves the catalog as applying it once.
type Engine struct {
	store  catalog.Store
	logger *zap.Logger
}

// NewEngine creates an engine mutating store.
func NewEngine(store catalog.Store, logger *zap.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// Apply reconciles rec. Store failures come back as *ReconciliationError.
func (e *Engine) Apply(ctx context.Context, rec decode.Record) (Outcome, error) {
	code := strings.TrimSpace(rec.Code)

	switch {
	case rec.Disbarred == decode.Disbarred:
		return e.deactivate(ctx, rec)
	case rec.Disbarred == decode.Listed && code != "":
		return e.upsert(ctx, code, rec)
	default:
		e.logger.Debug("Skipping record",
			zap.String("code", rec.Code),
			zap.String("old_code", rec.OldCode),
			zap.String("disbarred", rec.Disbarred),
		)
		return OutcomeSkipped, nil
	}
}

func (e *Engine) deactivate(ctx context.Context, rec decode.Record) (Outcome, error) {
	code := utils.FirstNonEmpty(rec.Code, rec.OldCode)
	if code == "" {
		e.logger.Debug("Skipping disbarred record without identity")
		return OutcomeSkipped, nil
	}

	n, err := e.store.DeactivateProducts(ctx, code)
	if err != nil {
		return "", &ReconciliationError{Code: code, Err: err}
	}
	if n == 0 {
		return OutcomeUnchanged, nil
	}

	e.logger.Debug("Product deactivated", zap.String("code", code), zap.Int64("rows", n))
	return OutcomeDeactivated, nil
}

func (e *Engine) upsert(ctx context.Context, code string, rec decode.Record) (Outcome, error) {
	incoming := toBarcodes(rec.Barcodes)

	var outcome Outcome
	err := e.store.Transaction(ctx, func(tx catalog.Store) error {
		current, err := tx.FindProductByCode(ctx, code)
		if err != nil {
			return err
		}

		if current == nil {
			p := &catalog.Product{
				ProductCode:      code,
				OldCode:          rec.OldCode,
				Description:      rec.Description,
				Price:            rec.Price,
				GroupCode:        rec.GroupCode,
				GroupDescription: rec.GroupDescription,
				Active:           true,
			}
			for _, a := range reconcile.BuildPlan(barcodeSpec, nil, incoming).Actions {
				p.Barcodes = append(p.Barcodes, *a.Incoming)
			}
			if err := tx.CreateProduct(ctx, p); err != nil {
				return err
			}
			outcome = OutcomeCreated
			return nil
		}

		fields := productChanges(current, rec)
		plan := reconcile.BuildPlan(barcodeSpec, current.Barcodes, incoming)
		if len(fields) == 0 && plan.Empty() {
			outcome = OutcomeUnchanged
			return nil
		}

		if err := tx.UpdateProduct(ctx, current.ID, fields); err != nil {
			return err
		}
		if err := applyBarcodePlan(ctx, tx, current.ID, plan); err != nil {
			return err
		}

		e.logger.Debug("Product updated",
			zap.String("code", code),
			zap.Strings("fields", fieldNames(fields)),
			zap.Int("barcode_creates", plan.Summary.Creates),
			zap.Int("barcode_updates", plan.Summary.Updates),
			zap.Int("barcode_deletes", plan.Summary.Deletes),
		)
		outcome = OutcomeUpdated
		return nil
	})
	if err != nil {
		return "", &ReconciliationError{Code: code, Err: err}
	}
	return outcome, nil
}

// applyBarcodePlan runs deletes first so values freed by a delete can be re-created.
func applyBarcodePlan(ctx context.Context, tx catalog.Store, productID string, plan reconcile.Plan[catalog.Barcode]) error {
	var ids []string
	for _, a := range plan.Of(reconcile.ActionDelete) {
		ids = append(ids, a.Stored.ID)
	}
	if err := tx.DeleteBarcodes(ctx, ids); err != nil {
		return err
	}

	for _, a := range plan.Of(reconcile.ActionUpdate) {
		if err := tx.UpdateBarcode(ctx, a.Stored.ID, a.Incoming.Quantity); err != nil {
			return err
		}
	}

	for _, a := range plan.Of(reconcile.ActionCreate) {
		b := &catalog.Barcode{ProductID: productID, Value: a.Incoming.Value, Quantity: a.Incoming.Quantity}
		if err := tx.CreateBarcode(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

// productChanges returns the columns of current that differ from rec.
func productChanges(current *catalog.Product, rec decode.Record) map[string]any {
	fields := make(map[string]any)
	if current.Description != rec.Description {
		fields["description"] = rec.Description
	}
	if !samePrice(current.Price, rec.Price) {
		fields["price"] = rec.Price
	}
	if current.GroupCode != rec.GroupCode {
		fields["group_code"] = rec.GroupCode
	}
	if current.GroupDescription != rec.GroupDescription {
		fields["group_description"] = rec.GroupDescription
	}
	if current.OldCode != rec.OldCode {
		fields["old_code"] = rec.OldCode
	}
	if !current.Active {
		fields["active"] = true
	}
	return fields
}

func samePrice(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func toBarcodes(in []decode.Barcode) []catalog.Barcode {
	out := make([]catalog.Barcode, 0, len(in))
	for _, b := range in {
		out = append(out, catalog.Barcode{Value: b.Value, Quantity: b.Quantity})
	}
	return out
}

func fieldNames(fields map[string]any) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	return names
}
