package steps

import "github.com/shopspring/decimal"

// Step is one stage of the checkout funnel. The current step is derived from
// the active route and never persisted.
type Step int

// Ordered checkout steps.
const (
	StepCart Step = iota
	StepAddress
	StepPayment
	StepConfirmation
)

// Routes bound one-to-one to the ordered steps.
const (
	PathCart         = "/koszyk"
	PathAddress      = "/koszyk/adres"
	PathPayment      = "/koszyk/platnosc"
	PathConfirmation = "/koszyk/potwierdzenie"
)

// Definition pairs a step's route with its display label.
type Definition struct {
	Path  string `json:"path"`
	Label string `json:"label"`
}

var definitions = []Definition{
	{Path: PathCart, Label: "Cart"},
	{Path: PathAddress, Label: "Address"},
	{Path: PathPayment, Label: "Payment"},
	{Path: PathConfirmation, Label: "Confirmation"},
}

// Definitions returns the ordered step definitions.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// FromPath maps a route to its step. The second return is false when the
// path is none of the four checkout routes.
func FromPath(path string) (Step, bool) {
	for i, def := range definitions {
		if def.Path == path {
			return Step(i), true
		}
	}
	return 0, false
}

// Path returns the route the step is bound to.
func (s Step) Path() string {
	if s < 0 || int(s) >= len(definitions) {
		return ""
	}
	return definitions[s].Path
}

// Label returns the step's display label.
func (s Step) Label() string {
	if s < 0 || int(s) >= len(definitions) {
		return ""
	}
	return definitions[s].Label
}

// Marker describes one step indicator on the progress bar. Markers are
// navigable only when completed or current; future steps are inert.
type Marker struct {
	Index     int    `json:"index"`
	Path      string `json:"path"`
	Label     string `json:"label"`
	Completed bool   `json:"completed"`
	Current   bool   `json:"current"`
	Navigable bool   `json:"navigable"`
}

// Markers derives the indicator states for the given route. An unmatched
// route leaves every marker future/inert.
func Markers(path string) []Marker {
	current := -1
	if s, ok := FromPath(path); ok {
		current = int(s)
	}
	out := make([]Marker, len(definitions))
	for i, def := range definitions {
		completed := current >= 0 && i < current
		isCurrent := i == current
		out[i] = Marker{
			Index:     i,
			Path:      def.Path,
			Label:     def.Label,
			Completed: completed,
			Current:   isCurrent,
			Navigable: completed || isCurrent,
		}
	}
	return out
}

// Progress reports how far along the funnel the route is, in [0, 1].
func Progress(path string) float64 {
	s, ok := FromPath(path)
	if !ok {
		return 0
	}
	return float64(s) / float64(len(definitions)-1)
}

// BarVisible reports whether the step bar should render at all. An empty
// cart suppresses the entire step UI across all checkout pages.
func BarVisible(totalItems int) bool {
	return totalItems > 0
}

// Action is the primary call-to-action for a route.
type Action struct {
	Label    string `json:"label"`
	Target   string `json:"target"`
	Disabled bool   `json:"disabled"`
}

// PrimaryAction derives the call-to-action for the given route. Forward
// navigation happens only through it; progression off the cart step is
// blocked while the subtotal is zero. The address step stays enabled even
// without a saved address.
func PrimaryAction(path string, subtotal decimal.Decimal) Action {
	switch path {
	case PathCart:
		return Action{Label: "Proceed to delivery", Target: PathAddress, Disabled: subtotal.IsZero()}
	case PathAddress:
		return Action{Label: "Proceed to payment", Target: PathPayment}
	case PathPayment:
		return Action{Label: "Place order", Target: PathConfirmation}
	default:
		return Action{Label: "Continue", Target: PathAddress}
	}
}
