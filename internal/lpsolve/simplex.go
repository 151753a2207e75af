package lpsolve

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// SimplexSolver solves Problems with gonum's two-phase simplex. It converts
// the problem to standard form (minimise c·x subject to Ax = b, x >= 0) by
// negating the objective and adding one slack or surplus column per
// inequality.
type SimplexSolver struct {
	// Tol is forwarded to lp.Simplex. Zero selects gonum's default tolerance.
	Tol float64
}

func NewSimplex() *SimplexSolver { return &SimplexSolver{} }

func (s *SimplexSolver) Solve(p *Problem) (Solution, error) {
	if p == nil || p.NumVars <= 0 {
		return Solution{}, fmt.Errorf("lpsolve: problem has no variables")
	}
	if len(p.Objective) != p.NumVars {
		return Solution{}, fmt.Errorf("lpsolve: %d objective coefficients for %d variables", len(p.Objective), p.NumVars)
	}
	if len(p.Constraints) == 0 {
		return Solution{}, fmt.Errorf("lpsolve: problem has no constraints")
	}

	extra := 0
	for _, con := range p.Constraints {
		if con.Sense != EQ {
			extra++
		}
	}
	rows := len(p.Constraints)
	cols := p.NumVars + extra

	c := make([]float64, cols)
	for i, v := range p.Objective {
		c[i] = -v
	}

	a := mat.NewDense(rows, cols, nil)
	b := make([]float64, rows)
	next := p.NumVars
	for i, con := range p.Constraints {
		for _, t := range con.Terms {
			if t.Var < 0 || t.Var >= p.NumVars {
				return Solution{}, fmt.Errorf("lpsolve: constraint %d references variable %d of %d", i, t.Var, p.NumVars)
			}
			a.Set(i, t.Var, a.At(i, t.Var)+t.Coeff)
		}
		b[i] = con.RHS
		switch con.Sense {
		case LE:
			a.Set(i, next, 1)
			next++
		case GE:
			a.Set(i, next, -1)
			next++
		}
	}

	_, x, err := lp.Simplex(c, a, b, s.Tol, nil)
	if err != nil {
		return Solution{Status: statusFromErr(err)}, nil
	}

	values := make([]float64, p.NumVars)
	copy(values, x[:p.NumVars])
	return Solution{
		Status:    StatusOptimal,
		Objective: floats.Dot(p.Objective, values),
		Values:    values,
	}, nil
}

func statusFromErr(err error) Status {
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return StatusInfeasible
	case errors.Is(err, lp.ErrUnbounded):
		return StatusUnbounded
	default:
		// Singular bases, Bland cycling and the like are numerical failures,
		// kept distinct from infeasibility for diagnostics.
		return StatusNumericalError
	}
}
