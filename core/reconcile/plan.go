package reconcile

import "fmt"

// BuildPlan diffs the stored set against the incoming set by key.
//
// Incoming duplicates collapse to the last occurrence. Stored duplicates keep the
// first occurrence and plan deletes for the rest, so applying a plan always leaves
// at most one item per key.
func BuildPlan[T any](spec Spec[T], stored, incoming []T) Plan[T] {
	// Collapse incoming duplicates, remembering first-seen order
	wanted := make(map[string]T, len(incoming))
	order := make([]string, 0, len(incoming))
	for _, item := range incoming {
		key := spec.Key(item)
		if _, seen := wanted[key]; !seen {
			order = append(order, key)
		}
		wanted[key] = item
	}

	current := make(map[string]T, len(stored))
	storedOrder := make([]string, 0, len(stored))
	var duplicates []T
	for _, item := range stored {
		key := spec.Key(item)
		if _, seen := current[key]; seen {
			duplicates = append(duplicates, item)
			continue
		}
		current[key] = item
		storedOrder = append(storedOrder, key)
	}

	var plan Plan[T]

	for _, key := range order {
		in := wanted[key]
		have, exists := current[key]
		if !exists {
			plan.Actions = append(plan.Actions, Action[T]{Type: ActionCreate, Key: key, Incoming: &in})
			plan.Summary.Creates++
			continue
		}
		if mismatch := spec.Compare(have, in); len(mismatch) > 0 {
			plan.Actions = append(plan.Actions, Action[T]{Type: ActionUpdate, Key: key, Stored: &have, Incoming: &in, Mismatch: mismatch})
			plan.Summary.Updates++
			continue
		}
		plan.Summary.Unchanged++
	}

	for _, key := range storedOrder {
		if _, keep := wanted[key]; keep {
			continue
		}
		gone := current[key]
		plan.Actions = append(plan.Actions, Action[T]{Type: ActionDelete, Key: key, Stored: &gone})
		plan.Summary.Deletes++
	}

	for _, item := range duplicates {
		dup := item
		plan.Actions = append(plan.Actions, Action[T]{Type: ActionDelete, Key: spec.Key(item), Stored: &dup})
		plan.Summary.Deletes++
	}

	plan.Summary.TotalItems = len(unionKeys(current, wanted))
	return plan
}

// unionKeys creates a union of all keys from both sides.
func unionKeys[T any](current, wanted map[string]T) map[string]struct{} {
	union := make(map[string]struct{}, len(current)+len(wanted))
	for key := range current {
		union[key] = struct{}{}
	}
	for key := range wanted {
		union[key] = struct{}{}
	}
	return union
}

// Mismatch formats a single field difference in the "field: db=x feed=y" form.
func Mismatch(field string, stored, incoming any) string {
	return fmt.Sprintf("%s: db=%v feed=%v", field, stored, incoming)
}
