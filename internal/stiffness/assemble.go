// Package stiffness implements the direct stiffness method for pin-jointed
// plane trusses: element matrices, global assembly, the partitioned solve
// for free-joint displacements, support reactions and member axial forces.
//
// All members have unit axial rigidity (EA = 1), so displacements are
// scaled by EA while reactions and member forces are exact.
package stiffness

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/alexiusacademia/gotruss/internal/truss"
)

// Local returns the 4x4 element stiffness matrix of m in global axes.
// Rows and columns are ordered [near-x, near-y, far-x, far-y].
func Local(m truss.Member) (*mat.Dense, error) {
	c, s, err := m.DirectionCosines()
	if err != nil {
		return nil, err
	}
	l := m.Length()

	cc, cs, ss := c*c/l, c*s/l, s*s/l
	return mat.NewDense(4, 4, []float64{
		cc, cs, -cc, -cs,
		cs, ss, -cs, -ss,
		-cc, -cs, cc, cs,
		-cs, -ss, cs, ss,
	}), nil
}

// Assemble builds the N x N global stiffness matrix, N being the truss DOF
// count. Row and column i-1 hold DOF i. Each member's local matrix is
// scattered into the rows and columns of its four DOFs.
func Assemble(t *truss.Truss) (*mat.Dense, error) {
	n := t.DOFCount()
	if n == 0 {
		return nil, truss.ErrEmptyTruss
	}

	k := mat.NewDense(n, n, nil)
	for i, m := range t.Members() {
		local, err := Local(m)
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", i+1, err)
		}
		scatterAdd(k, local, m.DOFs())
	}
	return k, nil
}

// scatterAdd performs K[dof_i, dof_j] += k[i, j] for every pair of the
// member's DOFs.
func scatterAdd(k, local *mat.Dense, dofs [4]int) {
	for i, gi := range dofs {
		for j, gj := range dofs {
			k.Set(gi-1, gj-1, k.At(gi-1, gj-1)+local.At(i, j))
		}
	}
}
