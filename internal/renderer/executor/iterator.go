package executor

// Iterator is a resumable position inside a frame. The zero value means the
// frame is complete, or not started when passed in as RenderFrom.
type Iterator struct {
	renderPassIdx          uint32
	renderableIdx          uint32
	flattenedRenderableIdx uint32
}

// NewIterator returns an iterator at the given position.
func NewIterator(renderPass, renderable, flattenedRenderable uint32) Iterator {
	return Iterator{
		renderPassIdx:          renderPass,
		renderableIdx:          renderable,
		flattenedRenderableIdx: flattenedRenderable,
	}
}

// RenderPassIdx is the index into the sorted pass list.
func (it Iterator) RenderPassIdx() uint32 { return it.renderPassIdx }

// RenderableIdx is the index into the ordered renderables of the current pass.
func (it Iterator) RenderableIdx() uint32 { return it.renderableIdx }

// FlattenedRenderableIdx counts processed renderables across all passes of the frame.
func (it Iterator) FlattenedRenderableIdx() uint32 { return it.flattenedRenderableIdx }

// IncrementRenderableIdx moves to the next renderable.
func (it *Iterator) IncrementRenderableIdx() {
	it.renderableIdx++
	it.flattenedRenderableIdx++
}

// IncrementRenderPassIdx moves to the first renderable of the next pass.
func (it *Iterator) IncrementRenderPassIdx() {
	it.renderPassIdx++
	it.renderableIdx = 0
}

// Done reports whether it is the zero iterator.
func (it Iterator) Done() bool { return it == Iterator{} }
