package config

// Mode selects the store's open-failure policy.
//
// Debug builds recover from a corrupt or mismatched store file by
// destroying and recreating it; release builds treat the same failure
// as fatal and never destroy data.
type Mode string

const (
	ModeDebug   Mode = "debug"
	ModeRelease Mode = "release"
)

// ParseMode converts a string to Mode, defaulting to ModeDebug
func ParseMode(s string) Mode {
	switch s {
	case "release":
		return ModeRelease
	case "debug":
		return ModeDebug
	default:
		return ModeDebug
	}
}

// DestructiveRecovery reports whether open failures may reset the store file
func (m Mode) DestructiveRecovery() bool {
	return m == ModeDebug
}
