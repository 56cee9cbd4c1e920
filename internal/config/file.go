package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
)

// File mirrors the on-disk TOML layout. Pointer fields distinguish missing keys from zero values.
type File struct {
	Renderer struct {
		RenderBudgetMicros  *uint64   `toml:"render_budget_us"`
		BatchSize           *uint32   `toml:"batch_size"`
		DecayCount          *uint32   `toml:"ubo_decay_count"`
		DepthStencilDiscard *bool     `toml:"depth_stencil_discard"`
		ClearColor          []float32 `toml:"clear_color"`
	} `toml:"renderer"`
	Window struct {
		Width    *int    `toml:"width"`
		Height   *int    `toml:"height"`
		Title    *string `toml:"title"`
		FPSLimit *int    `toml:"fps_limit"`
	} `toml:"window"`
}

// Load reads a TOML settings file
func Load(path string) (*RendererSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes TOML settings on top of the defaults
func Parse(data []byte) (*RendererSettings, error) {
	var f File
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode toml: %w", err)
	}

	s := NewRendererSettings()
	if err := f.apply(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (f *File) apply(s *RendererSettings) error {
	r := f.Renderer
	if r.RenderBudgetMicros != nil {
		s.SetRenderBudgetMicros(*r.RenderBudgetMicros)
	}
	if r.BatchSize != nil {
		s.SetBatchSize(*r.BatchSize)
	}
	if r.DecayCount != nil {
		s.SetDecayCount(*r.DecayCount)
	}
	if r.DepthStencilDiscard != nil {
		s.SetDepthStencilDiscard(*r.DepthStencilDiscard)
	}
	if r.ClearColor != nil {
		if len(r.ClearColor) != 4 {
			return fmt.Errorf("renderer.clear_color: want 4 components, got %d", len(r.ClearColor))
		}
		s.SetClearColor(mgl32.Vec4{r.ClearColor[0], r.ClearColor[1], r.ClearColor[2], r.ClearColor[3]})
	}

	w := f.Window
	if w.Width != nil || w.Height != nil {
		width, height := s.WindowSize()
		if w.Width != nil {
			width = *w.Width
		}
		if w.Height != nil {
			height = *w.Height
		}
		s.SetWindowSize(width, height)
	}
	if w.Title != nil {
		s.SetWindowTitle(*w.Title)
	}
	if w.FPSLimit != nil {
		s.SetFPSLimit(*w.FPSLimit)
	}
	return nil
}
