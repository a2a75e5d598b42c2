package truss

import (
	"math"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/gotruss/internal/geometry"
)

func pt(x, y float64) geometry.Point { return geometry.Point{X: x, Y: y} }

func TestAddMember_FirstMember(t *testing.T) {
	tr := New("first")
	require.NoError(t, tr.AddMember(JointSpec{X: 0, Y: 0}, JointSpec{X: 3, Y: 0, Support: true}))

	members := tr.Members()
	require.Len(t, members, 1)
	assert.Equal(t, [4]int{1, 2, 3, 4}, members[0].DOFs())
	assert.False(t, members[0].Near.Support)
	assert.True(t, members[0].Far.Support)
	assert.Equal(t, 4, tr.DOFCount())
}

// TestAddMember_DOFAssignment covers the three lookup outcomes for a new
// member: both ends known, neither known, and exactly one known.
func TestAddMember_DOFAssignment(t *testing.T) {
	tr := New("dofs")
	require.NoError(t, tr.AddMember(JointSpec{X: 0, Y: 0}, JointSpec{X: 3, Y: 0, Support: true}))

	// near known, far new
	require.NoError(t, tr.AddMember(JointSpec{X: 0, Y: 0}, JointSpec{X: 3, Y: 4, Support: true}))
	// near new, far known
	require.NoError(t, tr.AddMember(JointSpec{X: 6, Y: 4}, JointSpec{X: 3, Y: 4, Support: true}))
	// neither known
	require.NoError(t, tr.AddMember(JointSpec{X: 10, Y: 0}, JointSpec{X: 10, Y: 5}))
	// both known
	require.NoError(t, tr.AddMember(JointSpec{X: 3, Y: 0, Support: true}, JointSpec{X: 6, Y: 4}))

	got := make([][4]int, 0)
	for _, m := range tr.Members() {
		got = append(got, m.DOFs())
	}
	want := [][4]int{
		{1, 2, 3, 4},
		{1, 2, 5, 6},
		{7, 8, 5, 6},
		{9, 10, 11, 12},
		{3, 4, 7, 8},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("member DOFs mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 12, tr.DOFCount())
}

func TestAddMember_SharedJointResolvesToSameDOFs(t *testing.T) {
	tr := New("shared")
	require.NoError(t, tr.AddMember(JointSpec{X: 4, Y: 4}, JointSpec{X: 0, Y: 0, Support: true}))
	require.NoError(t, tr.AddMember(JointSpec{X: 4, Y: 4}, JointSpec{X: 4, Y: 0, Support: true}))
	require.NoError(t, tr.AddMember(JointSpec{X: 7, Y: 0, Support: true}, JointSpec{X: 4, Y: 4}))

	members := tr.Members()
	assert.Equal(t, members[0].Near.DOFs(), members[1].Near.DOFs())
	assert.Equal(t, members[0].Near.DOFs(), members[2].Far.DOFs())
}

// TestAddMember_DOFsAreConsecutivePairs checks that whatever the member
// order, the DOFs handed out are exactly 1..N in (odd, even) pairs.
func TestAddMember_DOFsAreConsecutivePairs(t *testing.T) {
	orders := [][][2]JointSpec{
		{
			{{X: 0, Y: 0}, {X: 1, Y: 0}},
			{{X: 1, Y: 0}, {X: 1, Y: 1}},
			{{X: 1, Y: 1}, {X: 0, Y: 0}},
			{{X: 2, Y: 2}, {X: 1, Y: 1}},
		},
		{
			{{X: 2, Y: 2}, {X: 1, Y: 1}},
			{{X: 1, Y: 0}, {X: 0, Y: 0}},
			{{X: 1, Y: 1}, {X: 0, Y: 0}},
			{{X: 1, Y: 0}, {X: 1, Y: 1}},
		},
	}

	for i, members := range orders {
		tr := New("order")
		for _, m := range members {
			require.NoError(t, tr.AddMember(m[0], m[1]))
		}

		var dofs []int
		for _, j := range tr.Joints() {
			assert.Equal(t, 1, j.DOFX%2, "order %d: x DOF must be odd", i)
			assert.Equal(t, j.DOFX+1, j.DOFY, "order %d", i)
			dofs = append(dofs, j.DOFX, j.DOFY)
		}
		sort.Ints(dofs)
		for k, d := range dofs {
			assert.Equal(t, k+1, d, "order %d: DOFs must be 1..N without gaps", i)
		}
		assert.Equal(t, len(dofs), tr.DOFCount())
		assert.Len(t, tr.Joints(), 4)
	}
}

func TestAddMember_Degenerate(t *testing.T) {
	tr := New("degenerate")
	err := tr.AddMember(JointSpec{X: 1, Y: 1}, JointSpec{X: 1, Y: 1, Support: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDegenerateMember)
	assert.Empty(t, tr.Members())
	assert.Zero(t, tr.DOFCount())
}

func TestAddMember_ConflictingSupport(t *testing.T) {
	tr := New("conflict")
	require.NoError(t, tr.AddMember(JointSpec{X: 0, Y: 0}, JointSpec{X: 3, Y: 0, Support: true}))

	err := tr.AddMember(JointSpec{X: 0, Y: 5}, JointSpec{X: 3, Y: 0})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflictingSupport)

	// the rejected member must not leak a joint
	assert.Len(t, tr.Members(), 1)
	assert.Equal(t, 4, tr.DOFCount())
	_, ok := tr.Joint(pt(0, 5))
	assert.False(t, ok)
}

func TestAddMember_NonFinite(t *testing.T) {
	tr := New("nan")
	err := tr.AddMember(JointSpec{X: math.NaN(), Y: 0}, JointSpec{X: 1, Y: 0})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

// nearThird is 0.1+0.2 evaluated at run time, one ulp above 0.3
func nearThird() float64 {
	a, b := 0.1, 0.2
	return a + b
}

func TestJointIdentity_Tolerance(t *testing.T) {
	x := nearThird()
	require.NotEqual(t, 0.3, x)

	tr := New("tolerance", WithTolerance(1e-6))
	require.NoError(t, tr.AddMember(JointSpec{X: x, Y: 0}, JointSpec{X: 1, Y: 0, Support: true}))
	require.NoError(t, tr.AddMember(JointSpec{X: 0.3, Y: 0}, JointSpec{X: 0.3, Y: 1, Support: true}))

	members := tr.Members()
	assert.Equal(t, members[0].Near.DOFs(), members[1].Near.DOFs(), "0.1+0.2 and 0.3 are the same joint")
	assert.Equal(t, 6, tr.DOFCount())
}

func TestJointIdentity_Exact(t *testing.T) {
	tr := New("exact", WithTolerance(0))
	require.NoError(t, tr.AddMember(JointSpec{X: nearThird(), Y: 0}, JointSpec{X: 1, Y: 0, Support: true}))
	require.NoError(t, tr.AddMember(JointSpec{X: 0.3, Y: 0}, JointSpec{X: 0.3, Y: 1, Support: true}))

	assert.Equal(t, 8, tr.DOFCount(), "exact matching treats near-misses as distinct joints")
}

func TestJointIdentity_AcrossGridBoundary(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		dofs int
	}{
		{"either side of a cell edge", 0.004999, 0.005001, 6},
		{"either side of zero", -0.0001, 0.0001, 6},
		{"adjacent cells within tolerance", 0.0199, 0.0289, 6},
		{"beyond tolerance", 0, 0.015, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New("grid", WithTolerance(0.01))
			require.NoError(t, tr.AddMember(JointSpec{X: tt.a, Y: 0}, JointSpec{X: 1, Y: 0, Support: true}))
			require.NoError(t, tr.AddMember(JointSpec{X: tt.b, Y: 0}, JointSpec{X: 0, Y: 1, Support: true}))
			assert.Equal(t, tt.dofs, tr.DOFCount())

			j, ok := tr.Joint(pt(tt.b, 0))
			require.True(t, ok)
			if tt.dofs == 6 {
				assert.Equal(t, tt.a, j.X, "the first coordinates seen are kept")
			}
		})
	}
}

func TestAddMember_DegenerateWithinTolerance(t *testing.T) {
	tr := New("short", WithTolerance(0.01))
	err := tr.AddMember(JointSpec{X: 0.004999, Y: 0}, JointSpec{X: 0.005001, Y: 0})
	assert.ErrorIs(t, err, ErrDegenerateMember)
	assert.Zero(t, tr.DOFCount())
}

func TestAddLoad(t *testing.T) {
	tr := New("load")
	require.NoError(t, tr.AddMember(JointSpec{X: 0, Y: 0}, JointSpec{X: 3, Y: 0, Support: true}))
	require.NoError(t, tr.AddMember(JointSpec{X: 0, Y: 0}, JointSpec{X: 3, Y: 4, Support: true}))

	_, ok := tr.Load()
	assert.False(t, ok)

	require.NoError(t, tr.AddLoad(pt(0, 0), 0, -2))
	load, ok := tr.Load()
	require.True(t, ok)
	assert.Equal(t, Load{At: pt(0, 0), Fx: 0, Fy: -2, DOFX: 1, DOFY: 2}, load)

	// a second load replaces the first
	require.NoError(t, tr.AddLoad(pt(3, 4), 5, 0))
	load, _ = tr.Load()
	assert.Equal(t, 5, load.DOFX)
	assert.Equal(t, 5.0, load.Fx)
}

func TestAddLoad_UnknownJoint(t *testing.T) {
	tr := New("unknown")
	require.NoError(t, tr.AddMember(JointSpec{X: 0, Y: 0}, JointSpec{X: 3, Y: 0, Support: true}))

	err := tr.AddLoad(pt(1, 1), 0, -2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownJoint)

	_, ok := tr.Load()
	assert.False(t, ok)
}

func TestTruss_String(t *testing.T) {
	tr := New("My first truss")
	require.NoError(t, tr.AddMember(JointSpec{X: 0, Y: 0}, JointSpec{X: 3, Y: 0, Support: true}))
	require.NoError(t, tr.AddLoad(pt(0, 0), 0, -2))

	want := "My first truss\n" +
		"  1: (0, 0) [1 2] -> (3, 0) [3 4] support\n" +
		"  load: (0, -2) at (0, 0)\n"
	assert.Equal(t, want, tr.String())
}
