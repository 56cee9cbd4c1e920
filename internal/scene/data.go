package scene

import (
	"fmt"
	"slices"

	"scenerender/internal/renderapi"

	"github.com/go-gl/mathgl/mgl32"
)

// DataType is the type of a data layout field.
type DataType uint8

const (
	DataTypeFloat DataType = iota
	DataTypeInt32
	DataTypeVector2F
	DataTypeVector3F
	DataTypeVector4F
	DataTypeVector2I
	DataTypeVector3I
	DataTypeVector4I
	DataTypeMatrix22F
	DataTypeMatrix33F
	DataTypeMatrix44F
	DataTypeTextureSampler2D
	DataTypeTextureSampler3D
	DataTypeTextureSamplerCube
	DataTypeTextureSamplerExternal
	DataTypeUniformBuffer
	DataTypeIndices
	DataTypeVertexAttribute
)

// IsTexture reports whether fields of type t bind a texture sampler.
func (t DataType) IsTexture() bool {
	return t >= DataTypeTextureSampler2D && t <= DataTypeTextureSamplerExternal
}

// IsResource reports whether fields of type t hold a geometry resource hash.
func (t DataType) IsResource() bool {
	return t == DataTypeIndices || t == DataTypeVertexAttribute
}

// Semantic tags a uniform field whose value the renderer derives itself.
type Semantic uint8

const (
	SemanticNone Semantic = iota
	SemanticModelMatrix
	SemanticViewMatrix
	SemanticProjectionMatrix
	SemanticModelViewMatrix
	SemanticModelViewMatrix33
	SemanticModelViewProjectionMatrix
	SemanticNormalMatrix
	SemanticCameraWorldPosition
	SemanticDisplayBufferResolution
	SemanticModelBlock
	SemanticCameraBlock
	SemanticModelCameraBlock
	SemanticTimeMs
)

// DataField describes one field of a data layout.
type DataField struct {
	Type         DataType
	ElementCount uint32
	Semantic     Semantic
}

// DataLayout is the ordered description of a data instance. Geometry layouts
// reference the effect whose shader draws them.
type DataLayout struct {
	Fields []DataField
	Effect renderapi.ResourceContentHash
}

// HasSemantic reports whether a field of l carries sem.
func (l DataLayout) HasSemantic(sem Semantic) bool {
	for _, f := range l.Fields {
		if f.Semantic == sem {
			return true
		}
	}
	return false
}

// FieldValue is the content of one data instance field. Which member is
// meaningful follows the field's data type; Reference, when valid, overrides
// the others with field 0 of the referenced instance.
type FieldValue struct {
	Constant       any
	Sampler        renderapi.TextureSamplerHandle
	UniformBuffer  renderapi.UniformBufferHandle
	ExternalBuffer renderapi.ExternalBufferHandle
	Resource       renderapi.ResourceContentHash
	Reference      renderapi.DataInstanceHandle
}

// DataInstance holds field values laid out by a data layout.
type DataInstance struct {
	Layout renderapi.DataLayoutHandle
	Values []FieldValue
}

// TextureSampler binds a texture resource for sampling.
type TextureSampler struct {
	Texture renderapi.ResourceContentHash
}

// AllocateDataLayout registers a layout.
func (s *Scene) AllocateDataLayout(fields []DataField, effect renderapi.ResourceContentHash) renderapi.DataLayoutHandle {
	return s.layouts.allocate(DataLayout{Fields: slices.Clone(fields), Effect: effect})
}

// DataLayout returns layout l.
func (s *Scene) DataLayout(l renderapi.DataLayoutHandle) DataLayout {
	return *s.layouts.get(l)
}

// AllocateDataInstance creates an instance of layout l with empty fields.
func (s *Scene) AllocateDataInstance(l renderapi.DataLayoutHandle) renderapi.DataInstanceHandle {
	layout := s.layouts.get(l)
	values := make([]FieldValue, len(layout.Fields))
	for i := range values {
		values[i] = FieldValue{
			Sampler:        renderapi.InvalidTextureSampler,
			UniformBuffer:  renderapi.InvalidUniformBuffer,
			ExternalBuffer: renderapi.InvalidExternalBuffer,
			Reference:      renderapi.InvalidDataInstance,
		}
	}
	return s.instances.allocate(DataInstance{Layout: l, Values: values})
}

// DataInstance returns instance i. The value slice must be treated as read-only.
func (s *Scene) DataInstance(i renderapi.DataInstanceHandle) DataInstance {
	return *s.instances.get(i)
}

// HasDataInstance reports whether i is allocated.
func (s *Scene) HasDataInstance(i renderapi.DataInstanceHandle) bool {
	return i != renderapi.InvalidDataInstance && s.instances.has(i)
}

// SetDataConstant stores a constant value; its Go type must match the field type.
func (s *Scene) SetDataConstant(i renderapi.DataInstanceHandle, f renderapi.DataFieldHandle, value any) {
	field, v := s.field(i, f)
	if !constantMatches(field.Type, value) {
		panic(fmt.Sprintf("scene: value of type %T does not fit field %d of type %d", value, f, field.Type))
	}
	v.Constant = value
}

// SetDataTextureSampler binds sampler to a texture field.
func (s *Scene) SetDataTextureSampler(i renderapi.DataInstanceHandle, f renderapi.DataFieldHandle, sampler renderapi.TextureSamplerHandle) {
	v := s.typedField(i, f, func(t DataType) bool { return t.IsTexture() && t != DataTypeTextureSamplerExternal })
	v.Sampler = sampler
}

// SetDataExternalBuffer binds an external buffer to an external texture field.
func (s *Scene) SetDataExternalBuffer(i renderapi.DataInstanceHandle, f renderapi.DataFieldHandle, buffer renderapi.ExternalBufferHandle) {
	v := s.typedField(i, f, func(t DataType) bool { return t == DataTypeTextureSamplerExternal })
	v.ExternalBuffer = buffer
}

// SetDataUniformBuffer binds a scene uniform buffer to a uniform buffer field.
func (s *Scene) SetDataUniformBuffer(i renderapi.DataInstanceHandle, f renderapi.DataFieldHandle, buffer renderapi.UniformBufferHandle) {
	v := s.typedField(i, f, func(t DataType) bool { return t == DataTypeUniformBuffer })
	v.UniformBuffer = buffer
}

// SetDataResource sets the resource hash of an indices or vertex attribute field.
func (s *Scene) SetDataResource(i renderapi.DataInstanceHandle, f renderapi.DataFieldHandle, hash renderapi.ResourceContentHash) {
	v := s.typedField(i, f, DataType.IsResource)
	v.Resource = hash
}

// SetDataReference makes field f read its value from field 0 of ref.
// InvalidDataInstance removes the reference.
func (s *Scene) SetDataReference(i renderapi.DataInstanceHandle, f renderapi.DataFieldHandle, ref renderapi.DataInstanceHandle) {
	_, v := s.field(i, f)
	if ref != renderapi.InvalidDataInstance {
		s.instances.get(ref)
	}
	v.Reference = ref
}

// ResolveField returns the effective value of a field, following a data reference.
func (s *Scene) ResolveField(i renderapi.DataInstanceHandle, f renderapi.DataFieldHandle) FieldValue {
	_, v := s.field(i, f)
	if v.Reference != renderapi.InvalidDataInstance {
		return s.instances.get(v.Reference).Values[0]
	}
	return *v
}

// AllocateTextureSampler creates a sampler for a texture resource.
func (s *Scene) AllocateTextureSampler(texture renderapi.ResourceContentHash) renderapi.TextureSamplerHandle {
	return s.samplers.allocate(TextureSampler{Texture: texture})
}

// TextureSampler returns sampler h.
func (s *Scene) TextureSampler(h renderapi.TextureSamplerHandle) TextureSampler {
	return *s.samplers.get(h)
}

// HasTextureSampler reports whether h is allocated.
func (s *Scene) HasTextureSampler(h renderapi.TextureSamplerHandle) bool {
	return h != renderapi.InvalidTextureSampler && s.samplers.has(h)
}

func (s *Scene) field(i renderapi.DataInstanceHandle, f renderapi.DataFieldHandle) (DataField, *FieldValue) {
	inst := s.instances.get(i)
	layout := s.layouts.get(inst.Layout)
	if int(f) >= len(layout.Fields) {
		panic(fmt.Sprintf("scene: data instance %d has no field %d", i, f))
	}
	return layout.Fields[f], &inst.Values[f]
}

func (s *Scene) typedField(i renderapi.DataInstanceHandle, f renderapi.DataFieldHandle, ok func(DataType) bool) *FieldValue {
	field, v := s.field(i, f)
	if !ok(field.Type) {
		panic(fmt.Sprintf("scene: field %d of data instance %d has incompatible type %d", f, i, field.Type))
	}
	return v
}

func constantMatches(t DataType, value any) bool {
	switch value.(type) {
	case []float32:
		return t == DataTypeFloat
	case []int32:
		return t == DataTypeInt32
	case []mgl32.Vec2:
		return t == DataTypeVector2F
	case []mgl32.Vec3:
		return t == DataTypeVector3F
	case []mgl32.Vec4:
		return t == DataTypeVector4F
	case [][2]int32:
		return t == DataTypeVector2I
	case [][3]int32:
		return t == DataTypeVector3I
	case [][4]int32:
		return t == DataTypeVector4I
	case []mgl32.Mat2:
		return t == DataTypeMatrix22F
	case []mgl32.Mat3:
		return t == DataTypeMatrix33F
	case []mgl32.Mat4:
		return t == DataTypeMatrix44F
	}
	return false
}

// ConstantLen returns the element count of a constant value, 0 for nil or
// unsupported values.
func ConstantLen(value any) int {
	switch v := value.(type) {
	case []float32:
		return len(v)
	case []int32:
		return len(v)
	case []mgl32.Vec2:
		return len(v)
	case []mgl32.Vec3:
		return len(v)
	case []mgl32.Vec4:
		return len(v)
	case [][2]int32:
		return len(v)
	case [][3]int32:
		return len(v)
	case [][4]int32:
		return len(v)
	case []mgl32.Mat2:
		return len(v)
	case []mgl32.Mat3:
		return len(v)
	case []mgl32.Mat4:
		return len(v)
	}
	return 0
}
