package scene

import (
	"slices"

	"scenerender/internal/renderapi"

	"github.com/go-gl/mathgl/mgl32"
)

type node struct {
	parent      renderapi.NodeHandle
	children    []renderapi.NodeHandle
	translation mgl32.Vec3
	rotation    mgl32.Quat
	scale       mgl32.Vec3

	world      mgl32.Mat4
	worldValid bool
	stamp      uint64
}

// AllocateNode creates a root node with identity transform.
func (s *Scene) AllocateNode() renderapi.NodeHandle {
	return s.nodes.allocate(node{
		parent:   renderapi.InvalidNode,
		rotation: mgl32.QuatIdent(),
		scale:    mgl32.Vec3{1, 1, 1},
		stamp:    s.nextStamp(),
	})
}

// SetParent attaches child below parent. InvalidNode detaches it.
func (s *Scene) SetParent(child, parent renderapi.NodeHandle) {
	c := s.nodes.get(child)
	if c.parent != renderapi.InvalidNode {
		old := s.nodes.get(c.parent)
		old.children = slices.DeleteFunc(old.children, func(h renderapi.NodeHandle) bool { return h == child })
	}
	if parent != renderapi.InvalidNode {
		for p := parent; p != renderapi.InvalidNode; p = s.nodes.get(p).parent {
			if p == child {
				panic("scene: node parenting would create a cycle")
			}
		}
		pn := s.nodes.get(parent)
		pn.children = append(pn.children, child)
	}
	c.parent = parent
	s.markTransformChanged(child)
}

// Parent returns the parent of n or InvalidNode.
func (s *Scene) Parent(n renderapi.NodeHandle) renderapi.NodeHandle {
	return s.nodes.get(n).parent
}

// SetTranslation sets the local translation of n.
func (s *Scene) SetTranslation(n renderapi.NodeHandle, t mgl32.Vec3) {
	s.nodes.get(n).translation = t
	s.markTransformChanged(n)
}

// Translation returns the local translation of n.
func (s *Scene) Translation(n renderapi.NodeHandle) mgl32.Vec3 {
	return s.nodes.get(n).translation
}

// SetRotation sets the local rotation of n.
func (s *Scene) SetRotation(n renderapi.NodeHandle, q mgl32.Quat) {
	s.nodes.get(n).rotation = q
	s.markTransformChanged(n)
}

// SetScale sets the local scale of n.
func (s *Scene) SetScale(n renderapi.NodeHandle, scale mgl32.Vec3) {
	s.nodes.get(n).scale = scale
	s.markTransformChanged(n)
}

// WorldMatrix returns the world transform of n, recomputing cached matrices on demand.
func (s *Scene) WorldMatrix(n renderapi.NodeHandle) mgl32.Mat4 {
	nd := s.nodes.get(n)
	if nd.worldValid {
		return nd.world
	}
	local := mgl32.Translate3D(nd.translation.X(), nd.translation.Y(), nd.translation.Z()).
		Mul4(nd.rotation.Mat4()).
		Mul4(mgl32.Scale3D(nd.scale.X(), nd.scale.Y(), nd.scale.Z()))
	if nd.parent != renderapi.InvalidNode {
		local = s.WorldMatrix(nd.parent).Mul4(local)
	}
	nd.world = local
	nd.worldValid = true
	return local
}

// ChangeStamp returns a value that changes whenever the world transform of n may have changed.
func (s *Scene) ChangeStamp(n renderapi.NodeHandle) uint64 {
	return s.nodes.get(n).stamp
}

func (s *Scene) markTransformChanged(n renderapi.NodeHandle) {
	stamp := s.nextStamp()
	stack := []renderapi.NodeHandle{n}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nd := s.nodes.get(h)
		nd.worldValid = false
		nd.stamp = stamp
		stack = append(stack, nd.children...)
	}
}

func (s *Scene) nextStamp() uint64 {
	s.stamp++
	return s.stamp
}
