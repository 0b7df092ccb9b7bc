package config

import (
	"io"
	"log"
	"path/filepath"
	"time"
)

// Options names the configuration sources of one invocation. Empty fields
// fall back to discovery and defaults.
type Options struct {
	BufferPath   string        // File being edited; used to discover a project
	ProjectPath  string        // Explicit project file
	SettingsPath string        // Explicit settings store
	Executable   string        // Per-invocation executable override
	Timeout      time.Duration // Per-invocation timeout override
}

// Resolved is the configuration of one invocation.
type Resolved struct {
	Executable string
	Dir        string
	Timeout    time.Duration
	MaxWidth   int
	MinHeight  int
	Project    *Project
	Settings   Settings
}

// Resolve reads the project and settings store afresh and resolves the
// checker invocation. Unreadable or malformed files are logged and skipped.
func Resolve(opts Options, logger *log.Logger) Resolved {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	projectPath := opts.ProjectPath
	if projectPath == "" && opts.BufferPath != "" && opts.BufferPath != "-" {
		projectPath, _ = FindProject(filepath.Dir(opts.BufferPath))
	}
	var project *Project
	if projectPath != "" {
		p, err := LoadProject(projectPath)
		if err != nil {
			logger.Printf("ignoring project: %v", err)
		} else {
			project = p
		}
	}

	settingsPath := opts.SettingsPath
	if settingsPath == "" {
		settingsPath = DefaultSettingsPath()
	}
	settings, err := LoadSettings(settingsPath)
	if err != nil {
		logger.Printf("ignoring settings: %v", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = settings.TimeoutOr(DefaultTimeout)
	}

	return Resolved{
		Executable: ResolveExecutable(Sources{Override: opts.Executable, Project: project, Settings: &settings}),
		Dir:        ResolveWorkingDir(project),
		Timeout:    timeout,
		MaxWidth:   settings.MaxWidthOr(DefaultMaxWidth),
		MinHeight:  settings.MinHeightOr(DefaultMinHeight),
		Project:    project,
		Settings:   settings,
	}
}
