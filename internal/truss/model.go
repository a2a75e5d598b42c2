// Package truss holds the structural model of a pin-jointed plane truss:
// the joint table, the degree-of-freedom numbering and the single applied
// joint load.
//
// Joints are identified by their coordinates. Every member end that lands
// on an already registered coordinate shares that joint's DOF pair, which
// is how members connect in the global stiffness system.
package truss

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexiusacademia/gotruss/internal/geometry"
)

// DefaultTolerance is the largest per-axis coordinate difference at which
// two member ends refer to the same joint.
const DefaultTolerance = 1e-9

// JointSpec describes a member end as given by the caller
type JointSpec struct {
	X       float64 `json:"x" yaml:"x"`
	Y       float64 `json:"y" yaml:"y"`
	Support bool    `json:"support,omitempty" yaml:"support,omitempty"`
}

// Point returns the coordinates of the joint spec
func (s JointSpec) Point() geometry.Point {
	return geometry.Point{X: s.X, Y: s.Y}
}

// Joint is a registered truss joint with its DOF pair.
// DOF indices are 1-based; DOFX is always odd and DOFY == DOFX+1.
type Joint struct {
	geometry.Point
	Support bool
	DOFX    int // x-translation
	DOFY    int // y-translation
}

// DOFs returns the joint's DOF pair
func (j Joint) DOFs() [2]int {
	return [2]int{j.DOFX, j.DOFY}
}

// Member is an ordered pair of joints
type Member struct {
	Near Joint
	Far  Joint
}

// Length returns the member length
func (m Member) Length() float64 {
	return geometry.Length(m.Near.Point, m.Far.Point)
}

// DirectionCosines returns the cosines of the near-to-far direction
func (m Member) DirectionCosines() (c, s float64, err error) {
	return geometry.DirectionCosines(m.Near.Point, m.Far.Point)
}

// DOFs returns the member's DOFs in [near-x, near-y, far-x, far-y] order
func (m Member) DOFs() [4]int {
	return [4]int{m.Near.DOFX, m.Near.DOFY, m.Far.DOFX, m.Far.DOFY}
}

// Load is a point load applied at a joint
type Load struct {
	At   geometry.Point
	Fx   float64
	Fy   float64
	DOFX int
	DOFY int
}

type jointKey struct {
	x, y float64
}

// Truss is the structural model. It is built with AddMember and AddLoad and
// then handed to the stiffness solver, which only reads it.
type Truss struct {
	name      string
	tolerance float64

	index   map[jointKey]int // joint key -> position in joints
	joints  []Joint          // in DOF order
	members []Member
	load    *Load

	lastDOF int
}

// Option configures a Truss
type Option func(*Truss)

// WithTolerance sets the tolerance used for joint identity: a point belongs
// to a registered joint when both coordinates differ from it by at most tol.
// A tolerance of zero or less makes joint identity exact coordinate equality.
func WithTolerance(tol float64) Option {
	return func(t *Truss) {
		t.tolerance = tol
	}
}

// New creates an empty truss
func New(name string, opts ...Option) *Truss {
	t := &Truss{
		name:      name,
		tolerance: DefaultTolerance,
		index:     make(map[jointKey]int),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the truss name
func (t *Truss) Name() string { return t.name }

// Tolerance returns the joint identity tolerance
func (t *Truss) Tolerance() float64 { return t.tolerance }

// DOFCount returns the total number of degrees of freedom
func (t *Truss) DOFCount() int { return t.lastDOF }

// Members returns a copy of the members in insertion order
func (t *Truss) Members() []Member {
	return append([]Member(nil), t.members...)
}

// Joints returns a copy of the joints in DOF order
func (t *Truss) Joints() []Joint {
	return append([]Joint(nil), t.joints...)
}

// Load returns the applied load, if any
func (t *Truss) Load() (Load, bool) {
	if t.load == nil {
		return Load{}, false
	}
	return *t.load, true
}

// Joint looks up the joint at p
func (t *Truss) Joint(p geometry.Point) (Joint, bool) {
	i, ok := t.lookup(p)
	if !ok {
		return Joint{}, false
	}
	return t.joints[i], true
}

// key returns the tolerance grid cell of a coordinate
func (t *Truss) key(p geometry.Point) jointKey {
	if t.tolerance <= 0 {
		return jointKey{p.X, p.Y}
	}
	return jointKey{math.Floor(p.X / t.tolerance), math.Floor(p.Y / t.tolerance)}
}

// lookup returns the position of the registered joint nearest to p among
// those within tolerance. A joint within tolerance always sits in p's grid
// cell or one of its eight neighbours.
func (t *Truss) lookup(p geometry.Point) (int, bool) {
	if t.tolerance <= 0 {
		i, ok := t.index[t.key(p)]
		return i, ok
	}

	k := t.key(p)
	best, found := 0, false
	bestDist := math.Inf(1)
	for dx := -1.0; dx <= 1; dx++ {
		for dy := -1.0; dy <= 1; dy++ {
			i, ok := t.index[jointKey{k.x + dx, k.y + dy}]
			if !ok || !t.coincide(t.joints[i].Point, p) {
				continue
			}
			if d := geometry.Length(t.joints[i].Point, p); d < bestDist {
				best, found, bestDist = i, true, d
			}
		}
	}
	return best, found
}

// coincide reports whether a and b are the same joint location
func (t *Truss) coincide(a, b geometry.Point) bool {
	if t.tolerance <= 0 {
		return a == b
	}
	return math.Abs(a.X-b.X) <= t.tolerance && math.Abs(a.Y-b.Y) <= t.tolerance
}

// AddMember adds a member between near and far. Ends that fall on an
// existing joint reuse its DOF pair; new joints get the next free pair,
// near end first.
func (t *Truss) AddMember(near, far JointSpec) error {
	for _, s := range []JointSpec{near, far} {
		if !isFinite(s.X) || !isFinite(s.Y) {
			return &ValidationError{msg: fmt.Sprintf("member %d: coordinates must be finite, got (%v, %v)", len(t.members)+1, s.X, s.Y)}
		}
	}

	degenerate := t.coincide(near.Point(), far.Point())
	if !degenerate {
		i, okNear := t.lookup(near.Point())
		j, okFar := t.lookup(far.Point())
		degenerate = okNear && okFar && i == j
	}
	if degenerate {
		return fmt.Errorf("member %d: %w: %v to %v", len(t.members)+1, ErrDegenerateMember, near.Point(), far.Point())
	}

	// Check both ends before registering anything so a rejected member
	// leaves the model untouched.
	for _, s := range []JointSpec{near, far} {
		if j, ok := t.Joint(s.Point()); ok && j.Support != s.Support {
			return fmt.Errorf("member %d: %w: joint %v", len(t.members)+1, ErrConflictingSupport, j.Point)
		}
	}

	m := Member{
		Near: t.register(near),
		Far:  t.register(far),
	}
	t.members = append(t.members, m)
	return nil
}

// register returns the joint at s, allocating a DOF pair if it is new
func (t *Truss) register(s JointSpec) Joint {
	if i, ok := t.lookup(s.Point()); ok {
		return t.joints[i]
	}

	j := Joint{
		Point:   s.Point(),
		Support: s.Support,
		DOFX:    t.lastDOF + 1,
		DOFY:    t.lastDOF + 2,
	}
	t.lastDOF += 2
	t.index[t.key(s.Point())] = len(t.joints)
	t.joints = append(t.joints, j)
	return j
}

// AddLoad applies a load (fx, fy) at the joint located at p, replacing any
// previous load.
func (t *Truss) AddLoad(p geometry.Point, fx, fy float64) error {
	if !isFinite(fx) || !isFinite(fy) {
		return &ValidationError{msg: fmt.Sprintf("load components must be finite, got (%v, %v)", fx, fy)}
	}

	j, ok := t.Joint(p)
	if !ok {
		return fmt.Errorf("add load: %w: %v", ErrUnknownJoint, p)
	}

	t.load = &Load{
		At:   j.Point,
		Fx:   fx,
		Fy:   fy,
		DOFX: j.DOFX,
		DOFY: j.DOFY,
	}
	return nil
}

// String returns a one-line-per-member summary of the model
func (t *Truss) String() string {
	var sb strings.Builder
	sb.WriteString(t.name)
	sb.WriteString("\n")
	for i, m := range t.members {
		fmt.Fprintf(&sb, "  %d: %s -> %s\n", i+1, formatJoint(m.Near), formatJoint(m.Far))
	}
	if t.load != nil {
		fmt.Fprintf(&sb, "  load: (%g, %g) at %v\n", t.load.Fx, t.load.Fy, t.load.At)
	}
	return sb.String()
}

func formatJoint(j Joint) string {
	s := fmt.Sprintf("%v [%d %d]", j.Point, j.DOFX, j.DOFY)
	if j.Support {
		s += " support"
	}
	return s
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
