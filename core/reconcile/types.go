package reconcile

// ActionType represents the type of mutation action.
type ActionType string

const (
	// ActionCreate inserts an item present only in the incoming set.
	ActionCreate ActionType = "create"
	// ActionUpdate rewrites a stored item whose fields differ from the incoming one.
	ActionUpdate ActionType = "update"
	// ActionDelete removes a stored item absent from the incoming set.
	ActionDelete ActionType = "delete"
)

// Action represents a planned mutation for one key.
type Action[T any] struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Key is the entity identifier within the set.
	Key string `json:"key"`

	// Stored is the current item. Nil for creates.
	Stored *T `json:"-"`

	// Incoming is the desired item. Nil for deletes.
	Incoming *T `json:"-"`

	// Mismatch describes the differing fields of an update, e.g. "quantity: db=2 feed=5".
	Mismatch []string `json:"mismatch,omitempty"`
}

// Spec tells BuildPlan how to identify and compare items of one set.
type Spec[T any] struct {
	// Key returns the identity of an item within the set.
	Key func(T) string

	// Compare returns a description for every differing field; empty means equal.
	Compare func(stored, incoming T) []string
}

// Plan contains the planned actions and aggregate counts.
type Plan[T any] struct {
	// Actions lists creates and updates in incoming order, then deletes in stored order.
	Actions []Action[T] `json:"actions"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// Empty reports whether the plan requires no mutation.
func (p Plan[T]) Empty() bool {
	return len(p.Actions) == 0
}

// Of returns the actions of type t.
func (p Plan[T]) Of(t ActionType) []Action[T] {
	var out []Action[T]
	for _, a := range p.Actions {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out
}

// PlanSummary provides aggregate statistics for a plan.
type PlanSummary struct {
	// TotalItems is the number of distinct keys across both sets.
	TotalItems int `json:"total_items"`
	Creates    int `json:"creates"`
	Updates    int `json:"updates"`
	Deletes    int `json:"deletes"`
	Unchanged  int `json:"unchanged"`
}
