package ptb

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

var (
	// DefaultConfigPath is the default path to the config file
	DefaultAppName    = "ptbcodec"
	DefaultAppVersion = "0.3.0"
	DefaultConfigPath = filepath.Join(userConfigDir(), DefaultAppName)

	// FormatName identifies the legacy container family in export manifests.
	FormatName = "Peachtree Backup"

	// FormatFixedWidth marks archives produced by this engine's exporter.
	// Imports seeing this format skip the heuristic scanners and use the
	// fixed-width decoder directly.
	FormatFixedWidth = "PTB-FW/1"
)

func userConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			return "/tmp"
		}
		return cwd
	}
	return dir
}

// GetLogger returns a properly configured zerolog logger instance
func GetLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
