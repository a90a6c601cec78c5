package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagAssets  = flag.String("assets", "", "Asset root directory")
	flagWatch   = flag.Bool("watch", false, "Reload the external animation clip when it changes")
	flagPaused  = flag.Bool("paused", false, "Start with playback paused")
	flagWidth   = flag.Int("width", 0, "Window width")
	flagHeight  = flag.Int("height", 0, "Window height")
	flagFull    = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagLogFile = flag.String("log", "", "Log file path")
	flagSave    = flag.Bool("save-config", false, "Write the effective config to the user config directory and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// SaveRequested reports whether --save-config was given.
func SaveRequested() bool {
	return *flagSave
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagAssets != "" {
		cfg.Assets.Root = *flagAssets
	}
	if *flagWatch {
		cfg.Assets.Watch = true
	}
	if *flagPaused {
		cfg.Controls.StartPlaying = false
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagFull {
		cfg.Window.Fullscreen = true
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
