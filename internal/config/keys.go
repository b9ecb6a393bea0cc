package config

// Configuration key constants. Each key is also readable from the
// environment as WEBWATCHER_<KEY> and settable by the flag of the same name
// with dashes.
const (
	// Browser and profile
	KeyProfileDir = "profile_dir" // Isolated profile directory handed to the browser
	KeyBrowser    = "browser"     // Executable path or name overriding the platform default

	// Watch behavior
	KeySettleWindow = "settle_window"
	KeyPollInterval = "poll_interval"

	// Output
	KeyTimeFormat = "time_format"
	KeyColor      = "color"

	// Prompts
	KeyNonInteractive = "non_interactive" // Never prompt; commands that need confirmation fail instead

	// Diagnostics
	KeyLogLevel  = "log_level"
	KeyLogFormat = "log_format"
)

// EnvPrefix is prepended to every key when reading the environment.
const EnvPrefix = "WEBWATCHER"

// Accepted values for the enumerated keys.
var (
	TimeFormats = []string{"24h", "12h"}
	ColorModes  = []string{"auto", "always", "never"}
)

// Default values for configuration keys
var Defaults = map[string]string{
	KeyProfileDir:     "",
	KeyBrowser:        "",
	KeySettleWindow:   "2s",
	KeyPollInterval:   "100ms",
	KeyTimeFormat:     "24h",
	KeyColor:          "auto",
	KeyLogLevel:       "warn",
	KeyLogFormat:      "console",
	KeyNonInteractive: "false",
}
