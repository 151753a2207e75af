// Package lpsolve defines a narrow linear-programming contract (objective +
// constraints in, status + assignment out) and a gonum simplex backend.
// Formulation code depends only on the Solver interface, so the engine can be
// swapped without touching any model-building logic.
package lpsolve

// Status is the solver-reported outcome of a solve call.
type Status int

const (
	StatusOptimal Status = iota
	StatusInfeasible
	StatusUnbounded
	StatusNumericalError
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	default:
		return "numerical_error"
	}
}

// Sense is the direction of a linear constraint.
type Sense int

const (
	LE Sense = iota // <=
	GE              // >=
	EQ              // ==
)

// Term is one coefficient on one variable.
type Term struct {
	Var   int
	Coeff float64
}

// Constraint is sum(Terms) Sense RHS.
type Constraint struct {
	Terms []Term
	Sense Sense
	RHS   float64
}

// Problem is a maximisation over variables x[0..NumVars), all bounded below
// by zero. Upper bounds are expressed as LE constraints.
type Problem struct {
	NumVars     int
	Objective   []float64 // len NumVars, maximised
	Constraints []Constraint
}

// Solution carries the solver outcome. Values is populated only when Status
// is StatusOptimal.
type Solution struct {
	Status    Status
	Objective float64
	Values    []float64
}

// Solver solves one Problem per call. The call blocks until the solve
// finishes; callers that need a time budget race it against a timer.
// An error return means the problem itself was malformed, not that the
// LP was infeasible or unbounded — those travel in Solution.Status.
type Solver interface {
	Solve(p *Problem) (Solution, error)
}
