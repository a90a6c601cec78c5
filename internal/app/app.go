package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/animscene/internal/assets"
	"github.com/Faultbox/animscene/internal/config"
	"github.com/Faultbox/animscene/internal/engine/audio"
	"github.com/Faultbox/animscene/internal/engine/input"
	"github.com/Faultbox/animscene/internal/engine/renderer"
	"github.com/Faultbox/animscene/internal/engine/screenshot"
	"github.com/Faultbox/animscene/internal/engine/ui2d"
	"github.com/Faultbox/animscene/internal/engine/window"
)

const toggleButtonID = "playback_toggle"

// App is the windowed scene: an SDL window and GL renderer driving a Session.
// It must be created and run on the locked main thread.
type App struct {
	cfg *config.Config
	log *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	overlay  *ui2d.Renderer
	ui       *ui2d.Context
	input    *input.Input

	session    *Session
	loader     *assets.Loader
	watcher    *assets.Watcher
	soundtrack *audio.Soundtrack
	screenshot *screenshot.Capture

	toggleKey     sdl.Scancode
	hasToggleKey  bool
	screenshotKey sdl.Scancode
	hasShotKey    bool

	running bool
}

// New opens the window and builds every subsystem. Asset loading starts in Run.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{cfg: cfg, log: log, input: input.New()}

	var err error
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	}, log.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}

	// Renderer after the window, since the GL context must exist.
	a.renderer, err = renderer.New(log.Named("renderer"))
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	ww, wh := a.window.Size()
	a.overlay, err = ui2d.New(ww, wh)
	if err != nil {
		a.renderer.Close()
		a.window.Close()
		return nil, fmt.Errorf("create overlay: %w", err)
	}
	a.ui = ui2d.NewContext(a.overlay)

	a.session = NewSession(cfg, a.renderer, nil, log)
	a.resize(ww, wh)

	src := assets.NewSource(cfg.Assets.Root)
	a.loader = assets.NewLoader(src, log.Named("assets"))
	a.loader.ModelScale = cfg.Assets.ModelScale

	a.screenshot = screenshot.New(cfg.Assets.ScreenshotDir, "animscene")
	a.bindControls()

	if cfg.Assets.Soundtrack != "" {
		a.soundtrack = audio.New(cfg.Audio.Volume, cfg.Audio.Muted, log.Named("audio"))
		if err := a.soundtrack.Init(); err != nil {
			log.Warn("audio unavailable, soundtrack disabled", zap.Error(err))
			a.soundtrack = nil
		} else {
			a.session.AttachSoundtrack(a.soundtrack)
		}
	}

	if cfg.Assets.Watch && cfg.Assets.ExternalClip != "" {
		a.watcher, err = a.watchClip(src)
		if err != nil {
			log.Warn("clip hot reload disabled", zap.Error(err))
		}
	}

	return a, nil
}

func (a *App) bindControls() {
	cc := a.cfg.Controls
	a.toggleKey, a.hasToggleKey = input.ResolveKey(cc.ToggleKey)
	if cc.ToggleKey != "" && !a.hasToggleKey {
		a.log.Debug("toggle key not recognized", zap.String("key", cc.ToggleKey))
	}
	if !cc.ToggleButton && !a.hasToggleKey {
		a.log.Debug("playback toggle disabled: no button or key configured")
	}
	a.screenshotKey, a.hasShotKey = input.ResolveKey(cc.ScreenshotKey)
}

func (a *App) watchClip(src *assets.Source) (*assets.Watcher, error) {
	file := src.Path(a.cfg.Assets.ExternalClip)
	w, err := assets.NewWatcher(a.loader, a.log.Named("watch"))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(file, assets.Request{Kind: assets.KindExternalClip, Path: a.cfg.Assets.ExternalClip}); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

// Requests lists the loads configured in cfg. Unset paths are skipped.
func Requests(cfg *config.Config) []assets.Request {
	ac := cfg.Assets
	var reqs []assets.Request
	if ac.Environment != "" {
		reqs = append(reqs, assets.Request{Kind: assets.KindEnvironment, Path: ac.Environment})
	}
	if ac.Character != "" {
		reqs = append(reqs, assets.Request{Kind: assets.KindCharacter, Path: ac.Character, Texture: ac.Texture})
	}
	if ac.ExternalClip != "" {
		reqs = append(reqs, assets.Request{Kind: assets.KindExternalClip, Path: ac.ExternalClip})
	}
	if ac.Soundtrack != "" {
		reqs = append(reqs, assets.Request{Kind: assets.KindSoundtrack, Path: ac.Soundtrack})
	}
	return reqs
}

// Run starts loading and drives frames until the window closes.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.loader.Start(ctx, Requests(a.cfg)...)
	if a.watcher != nil {
		a.watcher.Start()
	}

	a.running = true
	frames := 0
	fpsTimer := time.Now()

	a.log.Info("starting frame loop")
	for a.running {
		if a.input.Update() {
			a.running = false
			break
		}
		a.handleEvents()

		a.loader.Drain(a.session.HandleCompletion)

		dt := a.session.Tick()
		a.drawOverlay()

		if a.hasShotKey && a.input.IsKeyPressed(a.screenshotKey) {
			a.capture()
		}

		a.window.SwapBuffers()

		frames++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frames), zap.Duration("dt", dt))
			frames = 0
			fpsTimer = time.Now()
		}
	}

	cancel()
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.log.Warn("closing watcher", zap.Error(err))
		}
	}
	// Tasks still running see the cancelled context and drop their results.
	if err := a.loader.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		a.log.Debug("loader stopped", zap.Error(err))
	}
	return nil
}

func (a *App) handleEvents() {
	ui := a.ui.Input()
	for _, e := range a.input.Events() {
		switch e.Type {
		case input.EventWindowResize:
			a.resize(e.Width, e.Height)

		case input.EventKeyDown:
			if e.Repeat {
				continue
			}
			switch {
			case e.Key == sdl.SCANCODE_ESCAPE:
				a.running = false
			case a.hasToggleKey && e.Key == a.toggleKey:
				a.session.Toggle()
			}

		case input.EventMouseMove:
			ui.MouseX, ui.MouseY = float32(e.MouseX), float32(e.MouseY)
			if a.input.ButtonHeld(sdl.BUTTON_LEFT) && !a.ui.WantsMouse() {
				a.session.Controls.HandleDrag(float32(e.DeltaX), float32(e.DeltaY))
			}

		case input.EventMouseDown:
			ui.MouseX, ui.MouseY = float32(e.MouseX), float32(e.MouseY)
			if e.Button == sdl.BUTTON_LEFT {
				ui.MouseLeftDown = true
				ui.MouseLeftClicked = true
			}

		case input.EventMouseUp:
			if e.Button == sdl.BUTTON_LEFT {
				ui.MouseLeftDown = false
			}

		case input.EventMouseWheel:
			a.session.Controls.HandleZoom(float32(e.DeltaY))
		}
	}
}

// resize takes window coordinates; the GL viewport uses the drawable size.
func (a *App) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	dw, dh := a.window.DrawableSize()
	a.renderer.Resize(dw, dh)
	a.overlay.Resize(width, height)
	a.session.Resize(width, height)
}

func (a *App) drawOverlay() {
	a.ui.Begin()
	if a.cfg.Controls.ToggleButton {
		label := a.session.Playback.Label()
		if a.ui.Button(toggleButtonID, a.ui.TopLeftButton(label), label) {
			a.session.Toggle()
		}
	}
	a.ui.End()
}

func (a *App) capture() {
	w, h := a.window.DrawableSize()
	name, err := a.screenshot.Grab(w, h)
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", name))
}

// Close releases every subsystem in reverse order of creation.
func (a *App) Close() {
	a.log.Info("closing scene")
	if a.soundtrack != nil {
		a.soundtrack.Close()
	}
	if a.overlay != nil {
		a.overlay.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
