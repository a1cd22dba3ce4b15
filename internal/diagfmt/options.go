package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAbsolute always uses absolute paths. This is the default:
	// the diagnostic line contract prints resolved absolute paths.
	PathModeAbsolute PathMode = iota
	PathModeRelative
	PathModeBasename
	// PathModeAuto chooses a short form automatically.
	PathModeAuto
)

func (m PathMode) format() string {
	switch m {
	case PathModeAbsolute:
		return "absolute"
	case PathModeRelative:
		return "relative"
	case PathModeBasename:
		return "basename"
	default:
		return "auto"
	}
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	ShowNotes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	PathMode     PathMode
	Max          int // output truncation, does not touch the Bag
	IncludeNotes bool
}
