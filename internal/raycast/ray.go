package raycast

import (
	"math"

	"github.com/aretw0/nexus/pkg/domain"
)

// Ray is a half-line in scene space. Direction is unit length.
type Ray struct {
	Origin    domain.Vec3
	Direction domain.Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) domain.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectSphere returns the smallest non-negative ray parameter at which
// the ray enters the sphere, and whether it hits at all. A ray starting
// inside the sphere reports the exit point.
func (r Ray) IntersectSphere(center domain.Vec3, radius float64) (float64, bool) {
	oc := r.Origin.Sub(center)
	// Direction is unit length, so the quadratic's leading coefficient is 1.
	b := oc.Dot(r.Direction)
	c := oc.LengthSq() - radius*radius

	disc := b*b - c
	if disc < 0 {
		return 0, false
	}

	sqrtD := math.Sqrt(disc)
	t := -b - sqrtD
	if t < 0 {
		t = -b + sqrtD
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// Hit identifies the node a ray intersects and at what distance.
type Hit struct {
	NodeID   string
	Distance float64
}

// NearestNode intersects the ray against every node's picking sphere and
// returns the closest hit. The picking radius scales with the node's current
// visual scale, so a hovered (enlarged) node stays easy to keep under the
// pointer.
func NearestNode(ray Ray, nodes []*domain.Node, baseRadius float64) (Hit, bool) {
	best := Hit{Distance: math.Inf(1)}
	found := false
	for _, n := range nodes {
		t, ok := ray.IntersectSphere(n.Position, baseRadius*n.Scale)
		if !ok || t >= best.Distance {
			continue
		}
		best = Hit{NodeID: n.ID, Distance: t}
		found = true
	}
	return best, found
}
