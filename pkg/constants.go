package drifty

// Metadata block constants
const (
	BlockDelimiter = "---"          // Opening and closing line of the metadata block
	TrackedKey     = "driftwatcher" // Reserved key holding the watch entries
	trackedMarker  = TrackedKey + ":"
)

// Pattern constants
const (
	RootPrefix     = "$ROOT/" // Patterns starting with this resolve against the project root
	RootMarker     = ".git"   // Version-control marker that identifies the project root
	globMetaChars  = "*?["    // Presence of any of these makes a pattern a glob
	labelSeparator = '\n'     // Separates path label and content in multi-file digests
)

// Repository-local files
const (
	DriftyDir      = ".drifty"
	ConfigFileName = "config"
	IgnoreFileName = "ignore"
)

// Default values used when no configuration is present
const (
	DefaultHashAlgorithm = "sha256"
	DefaultOutputFormat  = "plaintext"
)

// DefaultExtensions are the document extensions scanned when none are configured
var DefaultExtensions = []string{"md", "markdown"}
