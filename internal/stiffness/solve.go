package stiffness

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/alexiusacademia/gotruss/internal/truss"
)

// DefaultConditionLimit is the largest condition number of the free-DOF
// stiffness block accepted as a stable structure.
const DefaultConditionLimit = 1e12

// Solver runs stiffness analyses
type Solver struct {
	logger         *zap.Logger
	conditionLimit float64
}

// Option configures a Solver
type Option func(*Solver)

// WithLogger sets the logger used for debug output
func WithLogger(l *zap.Logger) Option {
	return func(s *Solver) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithConditionLimit sets the condition number above which the free-DOF
// block is reported as singular.
func WithConditionLimit(limit float64) Option {
	return func(s *Solver) {
		s.conditionLimit = limit
	}
}

// NewSolver creates a solver
func NewSolver(opts ...Option) *Solver {
	s := &Solver{
		logger:         zap.NewNop(),
		conditionLimit: DefaultConditionLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result holds the results of a truss analysis
type Result struct {
	Load truss.Load // Load the analysis was run with

	// Displacements[i] is the displacement of DOF i+1 (support DOFs are 0)
	Displacements []float64

	FreeDOFs     []int     // DOFs of unsupported joints, ascending
	ReactionDOFs []int     // DOFs of support joints, ascending
	Reactions    []float64 // Reactions[i] acts along ReactionDOFs[i]
	MemberForces []float64 // Axial force per member, tension positive

	Condition float64 // condition number of the free-DOF block
}

// Displacement returns the displacement along a 1-based DOF
func (r *Result) Displacement(dof int) float64 {
	if dof < 1 || dof > len(r.Displacements) {
		return 0
	}
	return r.Displacements[dof-1]
}

// Equilibrium returns the residual of global force balance, the sum of all
// reactions plus the applied load, in x and y. Both are zero for a correct
// solution up to rounding.
func (r *Result) Equilibrium() (rx, ry float64) {
	rx, ry = r.Load.Fx, r.Load.Fy
	for i, dof := range r.ReactionDOFs {
		if dof%2 == 1 {
			rx += r.Reactions[i]
		} else {
			ry += r.Reactions[i]
		}
	}
	return rx, ry
}

// Solve analyses t with a default solver
func Solve(t *truss.Truss) (*Result, error) {
	return NewSolver().Solve(t)
}

// Solve computes displacements, reactions and member forces for the truss
// under its applied load. The truss is not modified.
func (s *Solver) Solve(t *truss.Truss) (*Result, error) {
	load, ok := t.Load()
	if !ok {
		return nil, truss.ErrMissingLoad
	}
	return s.solve(t, load)
}

func (s *Solver) solve(t *truss.Truss, load truss.Load) (*Result, error) {
	n := t.DOFCount()
	if load.DOFX < 1 || load.DOFY > n {
		return nil, fmt.Errorf("%w: %v", truss.ErrUnknownJoint, load.At)
	}

	k, err := Assemble(t)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("assembled global stiffness matrix",
		zap.String("truss", t.Name()),
		zap.Int("dofs", n),
		zap.Int("members", len(t.Members())))

	f := make([]float64, n)
	f[load.DOFX-1] = load.Fx
	f[load.DOFY-1] = load.Fy

	free, fixed := partition(t.Joints())
	s.logger.Debug("partitioned DOFs", zap.Ints("free", free), zap.Ints("fixed", fixed))

	result := &Result{
		Load:          load,
		Displacements: make([]float64, n),
		FreeDOFs:      free,
		ReactionDOFs:  fixed,
	}

	if len(free) > 0 {
		d, cond, err := s.solveFree(k, f, free)
		if err != nil {
			return nil, err
		}
		for i, dof := range free {
			result.Displacements[dof-1] = d[i]
		}
		result.Condition = cond
		s.logger.Debug("solved free displacements",
			zap.Float64("condition", cond),
			zap.Float64s("displacements", d))
	}

	// R = K_sf * d - F_s
	result.Reactions = make([]float64, len(fixed))
	for i, r := range fixed {
		var sum float64
		for _, c := range free {
			sum += k.At(r-1, c-1) * result.Displacements[c-1]
		}
		result.Reactions[i] = sum - f[r-1]
	}

	members := t.Members()
	result.MemberForces = make([]float64, len(members))
	for i, m := range members {
		q, err := axialForce(m, result.Displacements)
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", i+1, err)
		}
		result.MemberForces[i] = q
	}

	return result, nil
}

// solveFree solves K_ff * d = F_f over the free DOFs
func (s *Solver) solveFree(k *mat.Dense, f []float64, free []int) ([]float64, float64, error) {
	nf := len(free)
	kff := mat.NewDense(nf, nf, nil)
	ff := mat.NewVecDense(nf, nil)
	for i, r := range free {
		for j, c := range free {
			kff.Set(i, j, k.At(r-1, c-1))
		}
		ff.SetVec(i, f[r-1])
	}

	var lu mat.LU
	lu.Factorize(kff)
	cond := lu.Cond()
	if math.IsNaN(cond) || cond > s.conditionLimit {
		s.logger.Debug("free-DOF block rejected", zap.Float64("condition", cond))
		return nil, cond, fmt.Errorf("%w: condition number %g", truss.ErrSingularMatrix, cond)
	}

	var d mat.VecDense
	if err := lu.SolveVecTo(&d, false, ff); err != nil {
		return nil, cond, fmt.Errorf("%w: %v", truss.ErrSingularMatrix, err)
	}

	out := make([]float64, nf)
	for i := range out {
		v := d.AtVec(i)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, cond, truss.ErrSingularMatrix
		}
		out[i] = v
	}
	return out, cond, nil
}

// partition splits the DOFs into those of free joints and those of
// supports, both ascending.
func partition(joints []truss.Joint) (free, fixed []int) {
	for _, j := range joints {
		if j.Support {
			fixed = append(fixed, j.DOFX, j.DOFY)
		} else {
			free = append(free, j.DOFX, j.DOFY)
		}
	}
	return free, fixed
}

// axialForce returns q = (1/L) [-c, -s, c, s] . [u_near, u_far]
func axialForce(m truss.Member, u []float64) (float64, error) {
	c, s, err := m.DirectionCosines()
	if err != nil {
		return 0, err
	}
	dofs := m.DOFs()
	q := -c*u[dofs[0]-1] - s*u[dofs[1]-1] + c*u[dofs[2]-1] + s*u[dofs[3]-1]
	return q / m.Length(), nil
}
