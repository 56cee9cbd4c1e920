package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"scenerender/internal/config"
	"scenerender/internal/logging"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "path to a TOML settings file")
	verbose := flag.Bool("v", false, "log renderer debug output")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	logging.SetLogger(logger)

	settings := config.NewRendererSettings()
	if *configPath != "" {
		var err error
		if settings, err = config.Load(*configPath); err != nil {
			closer.Fatalln(err)
		}
	}

	if err := glfw.Init(); err != nil {
		closer.Fatalln(err)
	}
	closer.Bind(glfw.Terminate)

	window, err := setupWindow(settings)
	if err != nil {
		closer.Fatalln(err)
	}
	closer.Bind(window.Destroy)

	demo, err := newDemo(settings)
	if err != nil {
		closer.Fatalln(err)
	}
	closer.Bind(demo.Dispose)

	logger.Info("scene ready",
		"gl", gl.GoStr(gl.GetString(gl.VERSION)),
		"budget_us", settings.RenderBudgetMicros(),
		"batch", settings.BatchSize())

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})
	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		demo.Resize(width, height)
	})
	demo.Resize(window.GetFramebufferSize())

	run(window, demo)
	closer.Close()
}

func setupWindow(settings *config.RendererSettings) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	width, height := settings.WindowSize()
	window, err := glfw.CreateWindow(width, height, settings.WindowTitle(), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		window.Destroy()
		return nil, fmt.Errorf("init gl: %w", err)
	}
	if settings.FPSLimit() > 0 {
		glfw.SwapInterval(0)
	} else {
		glfw.SwapInterval(1)
	}
	return window, nil
}
