// Package raycast turns pointer coordinates into scene-space rays and
// intersects them with node spheres. It is the picking half of hover
// handling; the state machine lives with the scene runtime.
package raycast

import (
	"math"

	"github.com/aretw0/nexus/pkg/domain"
)

// Camera is a perspective pinhole. FOV is the vertical field of view in
// degrees; Aspect is width over height.
type Camera struct {
	Position domain.Vec3
	Target   domain.Vec3
	Up       domain.Vec3
	FOV      float64
	Aspect   float64
}

// DefaultCamera looks at the origin from down the positive Z axis, matching
// the framing the stock scene was tuned for.
func DefaultCamera() Camera {
	return Camera{
		Position: domain.Vec3{Z: 30},
		Target:   domain.Vec3{},
		Up:       domain.Vec3{Y: 1},
		FOV:      75,
		Aspect:   16.0 / 9.0,
	}
}

// ScreenRay maps normalized device coordinates to a world-space ray. nx and
// ny are in [-1, 1], with +ny pointing up and +nx pointing right.
func (c Camera) ScreenRay(nx, ny float64) Ray {
	forward := c.Target.Sub(c.Position).Normalized()
	right := forward.Cross(c.Up).Normalized()
	up := right.Cross(forward)

	halfH := math.Tan(c.FOV * math.Pi / 360)
	halfW := halfH * c.Aspect

	dir := forward.
		Add(right.Scale(nx * halfW)).
		Add(up.Scale(ny * halfH))

	return Ray{Origin: c.Position, Direction: dir.Normalized()}
}
