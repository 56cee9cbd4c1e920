package config

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultBatchSize      = 10
	DefaultDecayCount     = 3
	DefaultWindowWidth    = 900
	DefaultWindowHeight   = 600
	DefaultWindowTitle    = "scenerender"
	maxBatchSize          = 10000
	maxDecayCount         = 1000
	maxRenderBudgetMicros = 10_000_000
	minWindowDimension    = 64
	maxWindowDimension    = 16384
	maxFPSLimit           = 1000
)

// RendererSettings holds renderer configuration
type RendererSettings struct {
	mu sync.RWMutex

	renderBudgetMicros  uint64 // 0 means unlimited
	batchSize           uint32
	decayCount          uint32
	depthStencilDiscard bool
	clearColor          mgl32.Vec4
	windowWidth         int
	windowHeight        int
	windowTitle         string
	fpsLimit            int
}

// NewRendererSettings returns settings populated with defaults
func NewRendererSettings() *RendererSettings {
	return &RendererSettings{
		batchSize:    DefaultBatchSize,
		decayCount:   DefaultDecayCount,
		clearColor:   mgl32.Vec4{0, 0, 0, 1},
		windowWidth:  DefaultWindowWidth,
		windowHeight: DefaultWindowHeight,
		windowTitle:  DefaultWindowTitle,
	}
}

// RenderBudgetMicros returns the offscreen render budget, 0 if unlimited
func (s *RendererSettings) RenderBudgetMicros() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.renderBudgetMicros
}

// SetRenderBudgetMicros sets the offscreen render budget
func (s *RendererSettings) SetRenderBudgetMicros(micros uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if micros > maxRenderBudgetMicros {
		micros = maxRenderBudgetMicros
	}
	s.renderBudgetMicros = micros
}

// BatchSize returns the number of renderables drawn between budget checks
func (s *RendererSettings) BatchSize() uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.batchSize
}

// SetBatchSize sets the number of renderables drawn between budget checks
func (s *RendererSettings) SetBatchSize(n uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Clamp to reasonable values
	if n < 1 {
		n = 1
	}
	if n > maxBatchSize {
		n = maxBatchSize
	}
	s.batchSize = n
}

// DecayCount returns the number of changed frames an unused uniform buffer survives
func (s *RendererSettings) DecayCount() uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.decayCount
}

// SetDecayCount sets the uniform buffer decay threshold
func (s *RendererSettings) SetDecayCount(n uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 1 {
		n = 1
	}
	if n > maxDecayCount {
		n = maxDecayCount
	}
	s.decayCount = n
}

// DepthStencilDiscard reports whether depth/stencil attachments may be discarded
func (s *RendererSettings) DepthStencilDiscard() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.depthStencilDiscard
}

// SetDepthStencilDiscard toggles depth/stencil discard
func (s *RendererSettings) SetDepthStencilDiscard(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.depthStencilDiscard = enabled
}

// ClearColor returns the display buffer clear color
func (s *RendererSettings) ClearColor() mgl32.Vec4 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clearColor
}

// SetClearColor sets the display buffer clear color, components clamped to [0,1]
func (s *RendererSettings) SetClearColor(c mgl32.Vec4) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range c {
		c[i] = mgl32.Clamp(c[i], 0, 1)
	}
	s.clearColor = c
}

// WindowSize returns the demo window size in pixels
func (s *RendererSettings) WindowSize() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.windowWidth, s.windowHeight
}

// SetWindowSize sets the demo window size
func (s *RendererSettings) SetWindowSize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windowWidth = clampDimension(width)
	s.windowHeight = clampDimension(height)
}

// WindowTitle returns the demo window title
func (s *RendererSettings) WindowTitle() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.windowTitle
}

// SetWindowTitle sets the demo window title, empty restores the default
func (s *RendererSettings) SetWindowTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if title == "" {
		title = DefaultWindowTitle
	}
	s.windowTitle = title
}

func clampDimension(v int) int {
	if v < minWindowDimension {
		return minWindowDimension
	}
	if v > maxWindowDimension {
		return maxWindowDimension
	}
	return v
}

// FPSLimit returns the demo frame cap, 0 if vsync paces frames
func (s *RendererSettings) FPSLimit() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fpsLimit
}

// SetFPSLimit sets the demo frame cap, negative values mean no cap
func (s *RendererSettings) SetFPSLimit(limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit < 0 {
		limit = 0
	}
	if limit > maxFPSLimit {
		limit = maxFPSLimit
	}
	s.fpsLimit = limit
}
