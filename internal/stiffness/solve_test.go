package stiffness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/alexiusacademia/gotruss/internal/geometry"
	"github.com/alexiusacademia/gotruss/internal/truss"
)

const tol = 1e-9

func build(t *testing.T, name string, members [][2]truss.JointSpec, at geometry.Point, fx, fy float64) *truss.Truss {
	t.Helper()
	tr := truss.New(name)
	for _, m := range members {
		require.NoError(t, tr.AddMember(m[0], m[1]))
	}
	require.NoError(t, tr.AddLoad(at, fx, fy))
	return tr
}

// firstTruss: two members meeting at the loaded joint (0, 0)
func firstTruss(t *testing.T) *truss.Truss {
	return build(t, "My first truss", [][2]truss.JointSpec{
		{{X: 0, Y: 0}, {X: 3, Y: 0, Support: true}},
		{{X: 0, Y: 0}, {X: 3, Y: 4, Support: true}},
	}, geometry.Point{X: 0, Y: 0}, 0, -2)
}

// secondTruss: three members meeting at the loaded joint (4, 4)
func secondTruss(t *testing.T) *truss.Truss {
	return build(t, "My second truss", [][2]truss.JointSpec{
		{{X: 4, Y: 4}, {X: 0, Y: 0, Support: true}},
		{{X: 4, Y: 4}, {X: 4, Y: 0, Support: true}},
		{{X: 4, Y: 4}, {X: 7, Y: 0, Support: true}},
	}, geometry.Point{X: 4, Y: 4}, -500, 0)
}

// panelTruss: a braced panel with two free joints, pinned at (0,0) and (4,0)
func panelTruss(t *testing.T) *truss.Truss {
	return build(t, "panel", [][2]truss.JointSpec{
		{{X: 0, Y: 0, Support: true}, {X: 0, Y: 3}},
		{{X: 4, Y: 0, Support: true}, {X: 4, Y: 3}},
		{{X: 0, Y: 3}, {X: 4, Y: 3}},
		{{X: 0, Y: 0, Support: true}, {X: 4, Y: 3}},
	}, geometry.Point{X: 0, Y: 3}, 10, 0)
}

// assertJointEquilibrium checks that member forces balance the load at
// every free joint.
func assertJointEquilibrium(t *testing.T, tr *truss.Truss, res *Result) {
	t.Helper()
	load, _ := tr.Load()
	for _, j := range tr.Joints() {
		if j.Support {
			continue
		}
		var fx, fy float64
		if j.Point == load.At {
			fx, fy = load.Fx, load.Fy
		}
		for i, m := range tr.Members() {
			c, s, err := m.DirectionCosines()
			require.NoError(t, err)
			q := res.MemberForces[i]
			switch j.Point {
			case m.Near.Point:
				fx += q * c
				fy += q * s
			case m.Far.Point:
				fx -= q * c
				fy -= q * s
			}
		}
		assert.InDelta(t, 0, fx, 1e-6, "x balance at %v", j.Point)
		assert.InDelta(t, 0, fy, 1e-6, "y balance at %v", j.Point)
	}
}

func TestSolve_FirstTruss(t *testing.T) {
	res, err := Solve(firstTruss(t))
	require.NoError(t, err)

	assert.InDelta(t, 4.5, res.Displacement(1), tol)
	assert.InDelta(t, -19.0, res.Displacement(2), tol)

	assert.Equal(t, []int{1, 2}, res.FreeDOFs)
	assert.Equal(t, []int{3, 4, 5, 6}, res.ReactionDOFs)
	require.Len(t, res.Reactions, 4)
	for i, want := range []float64{-1.5, 0, 1.5, 2} {
		assert.InDelta(t, want, res.Reactions[i], tol, "reaction %d", i)
	}

	require.Len(t, res.MemberForces, 2)
	assert.InDelta(t, -1.5, res.MemberForces[0], tol, "horizontal member is in compression")
	assert.InDelta(t, 2.5, res.MemberForces[1], tol, "inclined member is in tension")

	rx, ry := res.Equilibrium()
	assert.InDelta(t, 0, rx, tol)
	assert.InDelta(t, 0, ry, tol)
}

func TestSolve_SecondTruss(t *testing.T) {
	tr := secondTruss(t)
	res, err := Solve(tr)
	require.NoError(t, err)

	assert.Len(t, res.Reactions, 6)
	assert.Len(t, res.MemberForces, 3)

	rx, ry := res.Equilibrium()
	assert.InDelta(t, 0, rx, 1e-6)
	assert.InDelta(t, 0, ry, 1e-6)
	assertJointEquilibrium(t, tr, res)

	// pushing the top joint left compresses the member to (0, 0) and
	// stretches the member to (7, 0)
	assert.Less(t, res.MemberForces[0], 0.0)
	assert.Less(t, res.MemberForces[1], 0.0)
	assert.Greater(t, res.MemberForces[2], 0.0)
	assert.Less(t, res.Displacement(1), 0.0)
}

func TestSolve_MultipleFreeJoints(t *testing.T) {
	tr := panelTruss(t)
	res, err := Solve(tr)
	require.NoError(t, err)

	assert.Equal(t, []int{3, 4, 7, 8}, res.FreeDOFs)
	assert.Equal(t, []int{1, 2, 5, 6}, res.ReactionDOFs)

	for i, want := range []float64{-10, -7.5, 0, 7.5} {
		assert.InDelta(t, want, res.Reactions[i], 1e-9, "reaction %d", i)
	}
	for i, want := range []float64{0, -7.5, -10, 12.5} {
		assert.InDelta(t, want, res.MemberForces[i], 1e-9, "member %d", i+1)
	}
	assertJointEquilibrium(t, tr, res)
}

func TestSolve_LoadAtSupport(t *testing.T) {
	tr := firstTruss(t)
	require.NoError(t, tr.AddLoad(geometry.Point{X: 3, Y: 0}, 4, -6))

	res, err := Solve(tr)
	require.NoError(t, err)

	assert.InDelta(t, 0, res.Displacement(1), tol)
	assert.InDelta(t, 0, res.Displacement(2), tol)
	for i, want := range []float64{-4, 6, 0, 0} {
		assert.InDelta(t, want, res.Reactions[i], tol)
	}
	for _, q := range res.MemberForces {
		assert.InDelta(t, 0, q, tol)
	}

	rx, ry := res.Equilibrium()
	assert.InDelta(t, 0, rx, tol)
	assert.InDelta(t, 0, ry, tol)
}

func TestSolve_AllSupported(t *testing.T) {
	tr := build(t, "fixed", [][2]truss.JointSpec{
		{{X: 0, Y: 0, Support: true}, {X: 1, Y: 0, Support: true}},
	}, geometry.Point{X: 1, Y: 0}, 3, 0)

	res, err := Solve(tr)
	require.NoError(t, err)
	assert.Empty(t, res.FreeDOFs)
	assert.Equal(t, []float64{0, 0, -3, 0}, res.Reactions)
	assert.Equal(t, []float64{0}, res.MemberForces)
}

func TestSolve_MissingLoad(t *testing.T) {
	tr := truss.New("no load")
	require.NoError(t, tr.AddMember(truss.JointSpec{X: 0, Y: 0}, truss.JointSpec{X: 3, Y: 0, Support: true}))

	_, err := Solve(tr)
	assert.ErrorIs(t, err, truss.ErrMissingLoad)
}

func TestSolve_Singular(t *testing.T) {
	tests := []struct {
		name    string
		members [][2]truss.JointSpec
	}{
		{
			name: "single bar",
			members: [][2]truss.JointSpec{
				{{X: 0, Y: 0}, {X: 3, Y: 0, Support: true}},
			},
		},
		{
			name: "collinear bars",
			members: [][2]truss.JointSpec{
				{{X: 0, Y: 0}, {X: 3, Y: 0, Support: true}},
				{{X: 0, Y: 0}, {X: -3, Y: 0, Support: true}},
			},
		},
		{
			name: "mechanism",
			members: [][2]truss.JointSpec{
				{{X: 0, Y: 0, Support: true}, {X: 0, Y: 3}},
				{{X: 0, Y: 3}, {X: 4, Y: 3}},
				{{X: 4, Y: 3}, {X: 4, Y: 0, Support: true}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := tt.members[0][0]
			if first.Support {
				first = tt.members[0][1]
			}
			tr := build(t, tt.name, tt.members, first.Point(), 0, -1)

			_, err := Solve(tr)
			assert.ErrorIs(t, err, truss.ErrSingularMatrix)
		})
	}
}

func TestSolve_DoesNotMutate(t *testing.T) {
	tr := firstTruss(t)
	before := tr.String()

	_, err := Solve(tr)
	require.NoError(t, err)
	assert.Equal(t, before, tr.String())
}

func TestSolver_Logs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := NewSolver(WithLogger(zap.New(core)))

	_, err := s.Solve(firstTruss(t))
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("assembled global stiffness matrix").Len())
	assert.Equal(t, 1, logs.FilterMessage("solved free displacements").Len())
}

func TestSolver_ConditionLimit(t *testing.T) {
	s := NewSolver(WithConditionLimit(1))

	_, err := s.Solve(firstTruss(t))
	assert.ErrorIs(t, err, truss.ErrSingularMatrix)
}
