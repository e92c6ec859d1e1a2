package config

// LogLevel represents valid logging levels
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// IsValid returns whether the log level is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
		return true
	default:
		return false
	}
}

// String implements the Stringer interface
func (l LogLevel) String() string {
	return string(l)
}

// Provider exposes the configuration values the control loop needs.
// Values are immutable after loading.
type Provider interface {
	// GetInterval returns the tick interval in seconds
	GetInterval() int

	// IsMonitorMode returns whether monitor-only mode is enabled
	IsMonitorMode() bool

	// GetLogLevel returns the configured logging level
	GetLogLevel() string

	// IsHistoryEnabled returns whether quick-action persistence is enabled
	IsHistoryEnabled() bool

	// GetHistoryDBPath returns the path to the history database
	GetHistoryDBPath() string
}

func (c *Config) GetInterval() int          { return c.Interval }
func (c *Config) IsMonitorMode() bool       { return c.Monitor }
func (c *Config) GetLogLevel() string       { return c.LogLevel }
func (c *Config) IsHistoryEnabled() bool    { return c.History }
func (c *Config) GetHistoryDBPath() string  { return c.HistoryDB }
