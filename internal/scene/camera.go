package scene

import (
	"math"

	"scenerender/internal/renderapi"

	"github.com/go-gl/mathgl/mgl32"
)

// ProjectionType selects how a camera projects.
type ProjectionType uint8

const (
	Perspective ProjectionType = iota
	Orthographic
)

// Frustum holds the clipping planes of a camera.
type Frustum struct {
	Left, Right, Bottom, Top, Near, Far float32
}

// PerspectiveFrustum converts a vertical field of view in degrees into symmetric frustum planes.
func PerspectiveFrustum(fovYDegrees, aspect, near, far float32) Frustum {
	top := near * float32(math.Tan(float64(mgl32.DegToRad(fovYDegrees))/2))
	right := top * aspect
	return Frustum{Left: -right, Right: right, Bottom: -top, Top: top, Near: near, Far: far}
}

// Camera is a projection bound to a node for its view transform.
type Camera struct {
	Node       renderapi.NodeHandle
	Projection ProjectionType
	Frustum    Frustum
	Viewport   renderapi.Viewport

	projectionStamp uint64
}

// ProjectionMatrix returns the projection matrix of the camera.
func (c Camera) ProjectionMatrix() mgl32.Mat4 {
	f := c.Frustum
	if c.Projection == Orthographic {
		return mgl32.Ortho(f.Left, f.Right, f.Bottom, f.Top, f.Near, f.Far)
	}
	return mgl32.Frustum(f.Left, f.Right, f.Bottom, f.Top, f.Near, f.Far)
}

// AllocateCamera creates a camera looking through node.
func (s *Scene) AllocateCamera(projection ProjectionType, n renderapi.NodeHandle) renderapi.CameraHandle {
	s.nodes.get(n)
	return s.cameras.allocate(Camera{
		Node:            n,
		Projection:      projection,
		Frustum:         Frustum{Left: -1, Right: 1, Bottom: -1, Top: 1, Near: 0.1, Far: 100},
		Viewport:        renderapi.Viewport{Width: 16, Height: 16},
		projectionStamp: s.nextStamp(),
	})
}

// Camera returns a copy of camera c.
func (s *Scene) Camera(c renderapi.CameraHandle) Camera {
	return *s.cameras.get(c)
}

// SetFrustum sets the clipping planes of c.
func (s *Scene) SetFrustum(c renderapi.CameraHandle, f Frustum) {
	cam := s.cameras.get(c)
	cam.Frustum = f
	cam.projectionStamp = s.nextStamp()
}

// SetPerspective sets the frustum of c from a vertical field of view.
func (s *Scene) SetPerspective(c renderapi.CameraHandle, fovYDegrees, aspect, near, far float32) {
	s.SetFrustum(c, PerspectiveFrustum(fovYDegrees, aspect, near, far))
}

// SetViewport sets the viewport rectangle of c.
func (s *Scene) SetViewport(c renderapi.CameraHandle, vp renderapi.Viewport) {
	s.cameras.get(c).Viewport = vp
}

// ProjectionMatrix returns the projection matrix of c.
func (s *Scene) ProjectionMatrix(c renderapi.CameraHandle) mgl32.Mat4 {
	return s.cameras.get(c).ProjectionMatrix()
}

// ProjectionStamp changes whenever the projection parameters of c change.
func (s *Scene) ProjectionStamp(c renderapi.CameraHandle) uint64 {
	return s.cameras.get(c).projectionStamp
}
