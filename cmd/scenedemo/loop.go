package main

import (
	"time"

	"scenerender/internal/logging"
	"scenerender/internal/renderapi"
	"scenerender/internal/renderer/frametimer"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

const spinSpeed = 1.2 // radians per second

func run(window *glfw.Window, d *demo) {
	pace := newPacer(d.settings.FPSLimit())
	frames := 0
	lastStats := time.Now()

	for !window.ShouldClose() {
		budget := pace.Begin(d.settings.RenderBudgetMicros())
		if d.Frame(budget) {
			window.SwapBuffers()
			frames++
		}
		glfw.PollEvents()

		if since := time.Since(lastStats); since >= time.Second {
			d.logStats(float64(frames) / since.Seconds())
			frames = 0
			lastStats = time.Now()
		}
		pace.End()
	}
}

// Frame renders one step within budget microseconds and reports whether the
// display buffer holds a complete frame. An interrupted frame is resumed by
// the next call without touching the scene, so the executor sees the same
// passes again.
func (d *demo) Frame(budget uint64) bool {
	d.timer.StartFrame()
	d.timer.SetSectionTimeBudget(frametimer.OffscreenBufferRender, budget)
	d.stats.ResetFrame()

	if d.ctx.RenderFrom.Done() {
		now := time.Now()
		if !d.ctx.FrameTime.IsZero() {
			d.angle += spinSpeed * float32(now.Sub(d.ctx.FrameTime).Seconds())
		}
		d.ctx.FrameTime = now
		d.scene.SetRotation(d.spinner, mgl32.QuatRotate(d.angle, mgl32.Vec3{0, 1, 0}))
		d.cached.UpdateFrame(d.res)
		d.ctx.DisplayBufferClearPending = renderapi.ClearAll
	}

	d.ctx.RenderFrom = d.exec.Execute(d.cached, &d.ctx)
	return d.ctx.RenderFrom.Done()
}

func (d *demo) logStats(fps float64) {
	args := []any{"fps", int(fps + 0.5), "phases", d.stats.TopN(4)}
	for name, v := range d.stats.Counters() {
		args = append(args, name, v)
	}
	logging.Logger().Info("frame stats", args...)
}
