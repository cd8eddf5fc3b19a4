package model

// Output formats the build pipeline can write next to the atlas PNG.
const (
	FormatC    = "c"    // SpriteDescriptor.h plus <name>.h / <name>.c
	FormatJSON = "json" // TexturePacker hash JSON
	FormatXLSX = "xlsx" // Placement spreadsheet
	FormatPDF  = "pdf"  // Layout report
	FormatDXF  = "dxf"  // Layout drawing
)

// AllFormats lists every supported output format.
var AllFormats = []string{FormatC, FormatJSON, FormatXLSX, FormatPDF, FormatDXF}

// IsFormat reports whether name is a supported output format.
func IsFormat(name string) bool {
	for _, f := range AllFormats {
		if f == name {
			return true
		}
	}
	return false
}

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to every build
	DefaultAtlasName string   `json:"default_atlas_name"`
	DefaultOutputDir string   `json:"default_output_dir"`
	DefaultFormats   []string `json:"default_formats"`
	DefaultMinSize   int      `json:"default_min_size"`
	DefaultSizeLimit int      `json:"default_size_limit"`
	DefaultWorkers   int      `json:"default_workers"`

	// Application preferences
	RecentAtlases []string `json:"recent_atlases"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultAtlasName: "unnamed_atlas",
		DefaultOutputDir: ".",
		DefaultFormats:   []string{FormatC},
		DefaultMinSize:   defaults.MinSize,
		DefaultSizeLimit: defaults.SizeLimit,
		DefaultWorkers:   defaults.Workers,
		RecentAtlases:    []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a PackSettings struct.
// Zero values in the config leave the corresponding setting untouched.
func (c AppConfig) ApplyToSettings(s *PackSettings) {
	if c.DefaultMinSize > 0 {
		s.MinSize = c.DefaultMinSize
	}
	if c.DefaultSizeLimit > 0 {
		s.SizeLimit = c.DefaultSizeLimit
	}
	if c.DefaultWorkers > 0 {
		s.Workers = c.DefaultWorkers
	}
}

// maxRecentAtlases bounds the recent atlas list.
const maxRecentAtlases = 10

// AddRecent records an atlas name as most recently built.
func (c *AppConfig) AddRecent(name string) {
	recent := []string{name}
	for _, r := range c.RecentAtlases {
		if r != name {
			recent = append(recent, r)
		}
	}
	if len(recent) > maxRecentAtlases {
		recent = recent[:maxRecentAtlases]
	}
	c.RecentAtlases = recent
}
