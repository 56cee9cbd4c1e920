package executor

import (
	"time"

	"scenerender/internal/renderapi"

	"github.com/go-gl/mathgl/mgl32"
)

// RenderingContext carries the per-display inputs of a frame and the state
// that must survive an interrupted Execute call.
type RenderingContext struct {
	DisplayBufferDeviceHandle renderapi.DeviceHandle
	ViewportWidth             uint32
	ViewportHeight            uint32

	// DisplayBufferClearPending holds the clear deferred to the first pass that
	// renders into the display buffer. It is reset once that clear is issued.
	DisplayBufferClearPending renderapi.ClearFlags
	DisplayBufferClearColor   mgl32.Vec4

	DepthStencilDiscard bool

	// FrameTime is the instant TimeMs uniforms are evaluated at for the whole
	// frame, including resumed calls. Zero means the clock at the first call.
	FrameTime time.Time

	// RenderFrom is the iterator returned by the interrupted call, or zero.
	RenderFrom Iterator
}
