package gldevice

import (
	"scenerender/internal/renderapi"

	"github.com/go-gl/gl/v4.1-core/gl"
)

func depthFunc(f renderapi.DepthFunc) uint32 {
	switch f {
	case renderapi.DepthFuncAlways:
		return gl.ALWAYS
	case renderapi.DepthFuncNever:
		return gl.NEVER
	case renderapi.DepthFuncLess:
		return gl.LESS
	case renderapi.DepthFuncEqual:
		return gl.EQUAL
	case renderapi.DepthFuncNotEqual:
		return gl.NOTEQUAL
	case renderapi.DepthFuncGreater:
		return gl.GREATER
	case renderapi.DepthFuncGreaterEqual:
		return gl.GEQUAL
	default:
		return gl.LEQUAL
	}
}

func stencilFunc(f renderapi.StencilFunc) uint32 {
	switch f {
	case renderapi.StencilFuncNever:
		return gl.NEVER
	case renderapi.StencilFuncEqual:
		return gl.EQUAL
	case renderapi.StencilFuncNotEqual:
		return gl.NOTEQUAL
	case renderapi.StencilFuncLess:
		return gl.LESS
	case renderapi.StencilFuncLessEqual:
		return gl.LEQUAL
	case renderapi.StencilFuncGreater:
		return gl.GREATER
	case renderapi.StencilFuncGreaterEqual:
		return gl.GEQUAL
	default:
		return gl.ALWAYS
	}
}

func stencilOp(op renderapi.StencilOp) uint32 {
	switch op {
	case renderapi.StencilOpZero:
		return gl.ZERO
	case renderapi.StencilOpReplace:
		return gl.REPLACE
	case renderapi.StencilOpIncrement:
		return gl.INCR
	case renderapi.StencilOpIncrementWrap:
		return gl.INCR_WRAP
	case renderapi.StencilOpDecrement:
		return gl.DECR
	case renderapi.StencilOpDecrementWrap:
		return gl.DECR_WRAP
	case renderapi.StencilOpInvert:
		return gl.INVERT
	default:
		return gl.KEEP
	}
}

func blendOperation(op renderapi.BlendOperation) uint32 {
	switch op {
	case renderapi.BlendOperationSubtract:
		return gl.FUNC_SUBTRACT
	case renderapi.BlendOperationReverseSubtract:
		return gl.FUNC_REVERSE_SUBTRACT
	case renderapi.BlendOperationMin:
		return gl.MIN
	case renderapi.BlendOperationMax:
		return gl.MAX
	default:
		return gl.FUNC_ADD
	}
}

func blendFactor(f renderapi.BlendFactor) uint32 {
	switch f {
	case renderapi.BlendFactorZero:
		return gl.ZERO
	case renderapi.BlendFactorSrcAlpha:
		return gl.SRC_ALPHA
	case renderapi.BlendFactorOneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	case renderapi.BlendFactorDstAlpha:
		return gl.DST_ALPHA
	case renderapi.BlendFactorOneMinusDstAlpha:
		return gl.ONE_MINUS_DST_ALPHA
	case renderapi.BlendFactorSrcColor:
		return gl.SRC_COLOR
	case renderapi.BlendFactorOneMinusSrcColor:
		return gl.ONE_MINUS_SRC_COLOR
	case renderapi.BlendFactorDstColor:
		return gl.DST_COLOR
	case renderapi.BlendFactorOneMinusDstColor:
		return gl.ONE_MINUS_DST_COLOR
	case renderapi.BlendFactorConstColor:
		return gl.CONSTANT_COLOR
	case renderapi.BlendFactorOneMinusConstColor:
		return gl.ONE_MINUS_CONSTANT_COLOR
	case renderapi.BlendFactorConstAlpha:
		return gl.CONSTANT_ALPHA
	case renderapi.BlendFactorOneMinusConstAlpha:
		return gl.ONE_MINUS_CONSTANT_ALPHA
	case renderapi.BlendFactorAlphaSaturate:
		return gl.SRC_ALPHA_SATURATE
	default:
		return gl.ONE
	}
}

// cullFace returns the face to cull; ok is false when culling is off.
func cullFace(m renderapi.CullMode) (face uint32, ok bool) {
	switch m {
	case renderapi.CullModeFront:
		return gl.FRONT, true
	case renderapi.CullModeBack:
		return gl.BACK, true
	case renderapi.CullModeFrontAndBack:
		return gl.FRONT_AND_BACK, true
	default:
		return 0, false
	}
}

func primitive(m renderapi.DrawMode) uint32 {
	switch m {
	case renderapi.DrawModeTriangleStrip:
		return gl.TRIANGLE_STRIP
	case renderapi.DrawModeTriangleFan:
		return gl.TRIANGLE_FAN
	case renderapi.DrawModeLines:
		return gl.LINES
	case renderapi.DrawModeLineStrip:
		return gl.LINE_STRIP
	case renderapi.DrawModeLineLoop:
		return gl.LINE_LOOP
	case renderapi.DrawModePoints:
		return gl.POINTS
	default:
		return gl.TRIANGLES
	}
}

func clearMask(f renderapi.ClearFlags) uint32 {
	var mask uint32
	if f.Has(renderapi.ClearColor) {
		mask |= gl.COLOR_BUFFER_BIT
	}
	if f.Has(renderapi.ClearDepth) {
		mask |= gl.DEPTH_BUFFER_BIT
	}
	if f.Has(renderapi.ClearStencil) {
		mask |= gl.STENCIL_BUFFER_BIT
	}
	return mask
}

func blitMask(colorOnly bool) uint32 {
	if colorOnly {
		return gl.COLOR_BUFFER_BIT
	}
	return gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT
}
