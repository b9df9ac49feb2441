package drifty

// This file holds the helpers the command line uses to set up the library

// InitDebugFlags initialises debug flags from a comma-separated list
func InitDebugFlags(flagsStr string) {
	if flagsStr != "" {
		SetDebugFlags(flagsStr)
	}
}

// LogDebugFlags logs the enabled debug flags at verbose level 1
func LogDebugFlags() {
	if globalVerboseLevel < 1 || len(debugFlags) == 0 {
		return
	}
	for flag, enabled := range debugFlags {
		if enabled {
			VerboseLog(1, "Debug flag enabled: %s", flag)
		}
	}
}

// OpenProject finds the project root above start and loads its configuration.
// A directory without a project root gets the default configuration.
func OpenProject(start string) (string, *Config, error) {
	root, err := FindProjectRoot(start)
	if err != nil {
		return "", DefaultConfig(), err
	}
	cfg, err := LoadConfig(root)
	if err != nil {
		return root, nil, err
	}
	return root, cfg, nil
}
