package renderapi

import "github.com/go-gl/mathgl/mgl32"

// DepthFunc is the depth comparison function.
type DepthFunc uint8

const (
	DepthFuncDisabled DepthFunc = iota
	DepthFuncAlways
	DepthFuncNever
	DepthFuncLess
	DepthFuncLessEqual
	DepthFuncEqual
	DepthFuncNotEqual
	DepthFuncGreater
	DepthFuncGreaterEqual
)

// DepthWrite toggles writes into the depth buffer.
type DepthWrite uint8

const (
	DepthWriteDisabled DepthWrite = iota
	DepthWriteEnabled
)

// StencilFunc is the stencil comparison function.
type StencilFunc uint8

const (
	StencilFuncDisabled StencilFunc = iota
	StencilFuncNever
	StencilFuncAlways
	StencilFuncEqual
	StencilFuncNotEqual
	StencilFuncLess
	StencilFuncLessEqual
	StencilFuncGreater
	StencilFuncGreaterEqual
)

// StencilOp is the stencil buffer update operation.
type StencilOp uint8

const (
	StencilOpKeep StencilOp = iota
	StencilOpZero
	StencilOpReplace
	StencilOpIncrement
	StencilOpIncrementWrap
	StencilOpDecrement
	StencilOpDecrementWrap
	StencilOpInvert
)

// BlendOperation is the blend equation for color or alpha.
type BlendOperation uint8

const (
	BlendOperationDisabled BlendOperation = iota
	BlendOperationAdd
	BlendOperationSubtract
	BlendOperationReverseSubtract
	BlendOperationMin
	BlendOperationMax
)

// BlendFactor is a blend function multiplier.
type BlendFactor uint8

const (
	BlendFactorZero BlendFactor = iota
	BlendFactorOne
	BlendFactorSrcAlpha
	BlendFactorOneMinusSrcAlpha
	BlendFactorDstAlpha
	BlendFactorOneMinusDstAlpha
	BlendFactorSrcColor
	BlendFactorOneMinusSrcColor
	BlendFactorDstColor
	BlendFactorOneMinusDstColor
	BlendFactorConstColor
	BlendFactorOneMinusConstColor
	BlendFactorConstAlpha
	BlendFactorOneMinusConstAlpha
	BlendFactorAlphaSaturate
)

// CullMode selects which faces are culled.
type CullMode uint8

const (
	CullModeDisabled CullMode = iota
	CullModeFront
	CullModeBack
	CullModeFrontAndBack
)

// DrawMode is the primitive topology.
type DrawMode uint8

const (
	DrawModeTriangles DrawMode = iota
	DrawModeTriangleStrip
	DrawModeTriangleFan
	DrawModeLines
	DrawModeLineStrip
	DrawModeLineLoop
	DrawModePoints
)

// ScissorTest toggles the scissor test.
type ScissorTest uint8

const (
	ScissorTestDisabled ScissorTest = iota
	ScissorTestEnabled
)

// ClearFlags selects the buffers a clear affects.
type ClearFlags uint8

const (
	ClearNone    ClearFlags = 0
	ClearColor   ClearFlags = 1 << 0
	ClearDepth   ClearFlags = 1 << 1
	ClearStencil ClearFlags = 1 << 2
	ClearAll                = ClearColor | ClearDepth | ClearStencil
)

// Has reports whether all bits of f are set.
func (c ClearFlags) Has(f ClearFlags) bool { return c&f == f }

// ColorWriteMask selects the color channels written by draws.
type ColorWriteMask uint8

const (
	ColorWriteRed   ColorWriteMask = 1 << 0
	ColorWriteGreen ColorWriteMask = 1 << 1
	ColorWriteBlue  ColorWriteMask = 1 << 2
	ColorWriteAlpha ColorWriteMask = 1 << 3
	ColorWriteAll                  = ColorWriteRed | ColorWriteGreen | ColorWriteBlue | ColorWriteAlpha
)

// ScissorRegion is the scissor rectangle in pixels.
type ScissorRegion struct {
	X, Y          int32
	Width, Height uint32
}

// Viewport is the viewport rectangle in pixels.
type Viewport struct {
	X, Y          int32
	Width, Height uint32
}

// PixelRectangle is a region of a render buffer.
type PixelRectangle struct {
	X, Y          int32
	Width, Height int32
}

// Scissor is the tracked scissor state.
type Scissor struct {
	Test   ScissorTest
	Region ScissorRegion
}

// StencilFuncState is the tracked stencil comparison.
type StencilFuncState struct {
	Func    StencilFunc
	RefMask uint8
	Ref     uint8
}

// StencilOps is the tracked stencil update operations.
type StencilOps struct {
	Fail      StencilOp
	DepthFail StencilOp
	DepthPass StencilOp
}

// BlendOperations is the tracked color and alpha blend equations.
type BlendOperations struct {
	Color, Alpha BlendOperation
}

// BlendFactors is the tracked blend function.
type BlendFactors struct {
	SrcColor, DstColor BlendFactor
	SrcAlpha, DstAlpha BlendFactor
}

// RenderState bundles all per-renderable pipeline state. It is comparable.
type RenderState struct {
	Scissor         Scissor
	DepthFunc       DepthFunc
	DepthWrite      DepthWrite
	StencilFunc     StencilFuncState
	StencilOps      StencilOps
	BlendOperations BlendOperations
	BlendFactors    BlendFactors
	BlendColor      mgl32.Vec4
	ColorWriteMask  ColorWriteMask
	CullMode        CullMode
	DrawMode        DrawMode
}

// DefaultRenderState returns the state a freshly allocated render state starts with.
func DefaultRenderState() RenderState {
	return RenderState{
		DepthFunc:       DepthFuncLessEqual,
		DepthWrite:      DepthWriteEnabled,
		StencilFunc:     StencilFuncState{Func: StencilFuncDisabled, RefMask: 0xff},
		BlendOperations: BlendOperations{Color: BlendOperationDisabled, Alpha: BlendOperationDisabled},
		BlendFactors: BlendFactors{
			SrcColor: BlendFactorSrcAlpha, DstColor: BlendFactorOneMinusSrcAlpha,
			SrcAlpha: BlendFactorOne, DstAlpha: BlendFactorOne,
		},
		ColorWriteMask: ColorWriteAll,
		CullMode:       CullModeBack,
		DrawMode:       DrawModeTriangles,
	}
}
