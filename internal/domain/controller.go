package domain

// DefaultCategory is the global aggregate measure selected on startup.
const DefaultCategory = "World"

// NoneOption is the comparison picker entry meaning "no comparison".
const NoneOption = "None"

// ViewState distinguishes "no data for this selection" from a renderable one.
// An empty view is a valid terminal state, not an error.
type ViewState string

const (
	StateReady     ViewState = "ready"
	StateEmptyView ViewState = "empty"
)

// SelectionState is the user's current choice of primary and comparison category.
type SelectionState struct {
	Primary    string `json:"primary"`
	Comparison string `json:"comparison,omitempty"` // "" when no comparison is selected
}

// HasComparison reports whether a comparison category is selected.
func (s SelectionState) HasComparison() bool {
	return s.Comparison != ""
}

// WithPrimary returns the selection with a new primary. A comparison equal to
// the new primary is cleared so a series is never compared against itself.
func (s SelectionState) WithPrimary(category string) SelectionState {
	s.Primary = category
	if s.Comparison == category {
		s.Comparison = ""
	}
	return s
}

// WithComparison returns the selection with a new comparison. "" and "None"
// clear it, as does the current primary.
func (s SelectionState) WithComparison(category string) SelectionState {
	if category == NoneOption || category == s.Primary {
		category = ""
	}
	s.Comparison = category
	return s
}

// Snapshot is a fully recomputed, consistent picture of a selection.
type Snapshot struct {
	Selection  SelectionState `json:"selection"`
	Primary    View           `json:"primary"`
	Comparison View           `json:"comparison,omitempty"`
	Bounds     Bounds         `json:"bounds"`
	HasBounds  bool           `json:"has_bounds"`
}

// State reports StateEmptyView when the primary view has no records.
func (s Snapshot) State() ViewState {
	if len(s.Primary) == 0 {
		return StateEmptyView
	}
	return StateReady
}

// AxisView is the longer of the two views. It spans every index the bounds
// cover, so time labels taken from it reach Bounds.MaxIndex.
func (s Snapshot) AxisView() View {
	if len(s.Comparison) > len(s.Primary) {
		return s.Comparison
	}
	return s.Primary
}

// Nearest hit-tests the snapshot's views. It returns an empty result when the
// snapshot has no bounds.
func (s Snapshot) Nearest(pointerX float64, area PlotArea) HitResult {
	if !s.HasBounds {
		return HitResult{}
	}
	return Nearest(pointerX, s.Bounds, area, s.Primary, s.Comparison)
}

// ComputeViews filters the store for each selected category. The comparison
// view is nil when no comparison is selected.
func ComputeViews(store *Store, sel SelectionState) (primary, comparison View) {
	primary = store.FilterByCategory(sel.Primary)
	if sel.HasComparison() {
		comparison = store.FilterByCategory(sel.Comparison)
	}
	return primary, comparison
}

// Compute builds a snapshot for sel.
func Compute(store *Store, sel SelectionState) Snapshot {
	primary, comparison := ComputeViews(store, sel)
	b, ok := ComputeBounds(primary, comparison)
	return Snapshot{
		Selection:  sel,
		Primary:    primary,
		Comparison: comparison,
		Bounds:     b,
		HasBounds:  ok,
	}
}

// Controller owns the selection for one viewer and recomputes views and
// bounds eagerly on every change, so a reader never observes stale bounds.
// A Controller is not safe for concurrent use; the Store it reads is.
type Controller struct {
	store *Store
	snap  Snapshot
}

// NewController creates a controller with defaultCategory as the primary and
// no comparison.
func NewController(store *Store, defaultCategory string) *Controller {
	c := &Controller{store: store}
	c.apply(SelectionState{Primary: defaultCategory})
	return c
}

// SelectPrimary sets the primary category. Unknown categories yield an empty view.
func (c *Controller) SelectPrimary(category string) {
	c.apply(c.snap.Selection.WithPrimary(category))
}

// SelectComparison sets or clears ("" or "None") the comparison category.
func (c *Controller) SelectComparison(category string) {
	c.apply(c.snap.Selection.WithComparison(category))
}

// Selection returns the current selection.
func (c *Controller) Selection() SelectionState { return c.snap.Selection }

// Snapshot returns the current consistent state.
func (c *Controller) Snapshot() Snapshot { return c.snap }

func (c *Controller) apply(sel SelectionState) {
	c.snap = Compute(c.store, sel)
}
