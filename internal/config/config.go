// Package config handles scene configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all scene settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Camera   CameraConfig   `yaml:"camera"`
	Lights   LightsConfig   `yaml:"lights"`
	Assets   AssetsConfig   `yaml:"assets"`
	Controls ControlsConfig `yaml:"controls"`
	Audio    AudioConfig    `yaml:"audio"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// CameraConfig holds the perspective camera and orbit control settings.
type CameraConfig struct {
	FOV      float32    `yaml:"fov"` // Vertical field of view in degrees
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
	Position [3]float32 `yaml:"position"`
	Target   [3]float32 `yaml:"target"`
	Damping  bool       `yaml:"damping"`
}

// LightsConfig holds the fixed scene lights.
type LightsConfig struct {
	HemisphereSky       string     `yaml:"hemisphere_sky"`
	HemisphereGround    string     `yaml:"hemisphere_ground"`
	HemisphereIntensity float32    `yaml:"hemisphere_intensity"`
	DirectionalColor    string     `yaml:"directional_color"`
	DirectionalPosition [3]float32 `yaml:"directional_position"`
	DirectionalStrength float32    `yaml:"directional_intensity"`
}

// AssetsConfig holds asset paths. Paths are relative to Root unless absolute.
type AssetsConfig struct {
	Root          string  `yaml:"root"`
	Environment   string  `yaml:"environment"`
	Character     string  `yaml:"character"`
	Texture       string  `yaml:"texture"`
	ExternalClip  string  `yaml:"external_clip"`
	Soundtrack    string  `yaml:"soundtrack"`
	ModelScale    float32 `yaml:"model_scale"`
	Watch         bool    `yaml:"watch"` // Reload the external clip when it changes on disk
	ScreenshotDir string  `yaml:"screenshot_dir"`
}

// ControlsConfig holds the playback toggle control settings.
type ControlsConfig struct {
	ToggleButton  bool   `yaml:"toggle_button"`
	ToggleKey     string `yaml:"toggle_key"` // SDL key name, empty disables the shortcut
	StartPlaying  bool   `yaml:"start_playing"`
	ScreenshotKey string `yaml:"screenshot_key"`
}

// AudioConfig holds soundtrack settings.
type AudioConfig struct {
	Volume float64 `yaml:"volume"`
	Muted  bool    `yaml:"muted"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "Animated Scene",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Camera: CameraConfig{
			FOV:      60,
			Near:     0.1,
			Far:      100,
			Position: [3]float32{0, 2, 6},
			Target:   [3]float32{0, 0, 0},
			Damping:  true,
		},
		Lights: LightsConfig{
			HemisphereSky:       "#ffffff",
			HemisphereGround:    "#444444",
			HemisphereIntensity: 1,
			DirectionalColor:    "#ffffff",
			DirectionalPosition: [3]float32{3, 10, 10},
			DirectionalStrength: 1,
		},
		Assets: AssetsConfig{
			Root:          "public",
			Environment:   "hdr/noche.hdr",
			Character:     "models/character.glb",
			Texture:       "models/character.png",
			ExternalClip:  "models/dance.glb",
			ModelScale:    0.01,
			ScreenshotDir: "screenshots",
		},
		Controls: ControlsConfig{
			ToggleButton:  true,
			ToggleKey:     "Space",
			StartPlaying:  true,
			ScreenshotKey: "F12",
		},
		Audio: AudioConfig{
			Volume: 0.8,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings the scene cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera fov %v must be in (0, 180)", c.Camera.FOV))
	}
	if c.Camera.Near <= 0 || c.Camera.Near >= c.Camera.Far {
		errs = append(errs, fmt.Errorf("camera near %v must be positive and below far %v", c.Camera.Near, c.Camera.Far))
	}
	if c.Assets.ModelScale <= 0 {
		errs = append(errs, fmt.Errorf("model scale %v must be positive", c.Assets.ModelScale))
	}
	return errors.Join(errs...)
}
