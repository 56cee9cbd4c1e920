package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"scenerender/internal/config"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	s := config.NewRendererSettings()
	assert.Zero(t, s.RenderBudgetMicros())
	assert.Equal(t, uint32(config.DefaultBatchSize), s.BatchSize())
	assert.Equal(t, uint32(config.DefaultDecayCount), s.DecayCount())
	assert.False(t, s.DepthStencilDiscard())
	w, h := s.WindowSize()
	assert.Equal(t, config.DefaultWindowWidth, w)
	assert.Equal(t, config.DefaultWindowHeight, h)
	assert.Equal(t, config.DefaultWindowTitle, s.WindowTitle())
	assert.Zero(t, s.FPSLimit())
}

func TestSettersClamp(t *testing.T) {
	s := config.NewRendererSettings()

	s.SetBatchSize(0)
	assert.Equal(t, uint32(1), s.BatchSize())
	s.SetBatchSize(1 << 30)
	assert.Equal(t, uint32(10000), s.BatchSize())

	s.SetDecayCount(0)
	assert.Equal(t, uint32(1), s.DecayCount())

	s.SetWindowSize(1, 100000)
	w, h := s.WindowSize()
	assert.Equal(t, 64, w)
	assert.Equal(t, 16384, h)

	s.SetClearColor(mgl32.Vec4{-1, 0.5, 2, 1})
	assert.Equal(t, mgl32.Vec4{0, 0.5, 1, 1}, s.ClearColor())

	s.SetWindowTitle("")
	assert.Equal(t, config.DefaultWindowTitle, s.WindowTitle())

	s.SetFPSLimit(-5)
	assert.Zero(t, s.FPSLimit())
	s.SetFPSLimit(5000)
	assert.Equal(t, 1000, s.FPSLimit())
}

func TestParseAppliesKeys(t *testing.T) {
	s, err := config.Parse([]byte(`
[renderer]
render_budget_us = 2500
batch_size = 4
ubo_decay_count = 7
depth_stencil_discard = true
clear_color = [0.1, 0.2, 0.3, 1.0]

[window]
width = 1280
title = "demo"
fps_limit = 144
`))
	require.NoError(t, err)

	assert.Equal(t, uint64(2500), s.RenderBudgetMicros())
	assert.Equal(t, uint32(4), s.BatchSize())
	assert.Equal(t, uint32(7), s.DecayCount())
	assert.True(t, s.DepthStencilDiscard())
	assert.Equal(t, mgl32.Vec4{0.1, 0.2, 0.3, 1.0}, s.ClearColor())
	w, h := s.WindowSize()
	assert.Equal(t, 1280, w)
	assert.Equal(t, config.DefaultWindowHeight, h)
	assert.Equal(t, "demo", s.WindowTitle())
	assert.Equal(t, 144, s.FPSLimit())
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := config.Parse([]byte("[renderer]\nbatch = 3\n"))
	require.Error(t, err)
	var strict *toml.StrictMissingError
	assert.ErrorAs(t, err, &strict)
}

func TestParseRejectsBadClearColor(t *testing.T) {
	_, err := config.Parse([]byte("[renderer]\nclear_color = [1.0, 0.0]\n"))
	assert.ErrorContains(t, err, "clear_color")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "renderer.toml")
	require.NoError(t, os.WriteFile(path, []byte("[renderer]\nbatch_size = 2\n"), 0o644))

	s, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), s.BatchSize())

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
