package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrNotImplemented  ErrorCode = "not_implemented"
	ErrUnavailable     ErrorCode = "service_unavailable"
	ErrAlreadyRunning  ErrorCode = "already_running"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrMissingConfig   ErrorCode = "missing_configuration"
	ErrBindFlags       ErrorCode = "bind_flags_failed"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrInvalidInterval ErrorCode = "invalid_interval"

	// Logging errors
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Initialization errors
	ErrInitFailed     ErrorCode = "initialization_failed"
	ErrShutdownFailed ErrorCode = "shutdown_failed"

	// Operation errors
	ErrOperationFailed  ErrorCode = "operation_failed"
	ErrTimeout          ErrorCode = "operation_timeout"
	ErrInvalidOperation ErrorCode = "invalid_operation"

	// Application errors
	ErrInitApp        ErrorCode = "init_app_failed"
	ErrSessionRunning ErrorCode = "session_already_running"
	ErrSessionStopped ErrorCode = "session_not_running"

	// Signal acquisition errors
	ErrSignalUnavailable ErrorCode = "signal_unavailable"
	ErrSignalStale       ErrorCode = "signal_stale"

	// Classification errors
	ErrClassifyFailed ErrorCode = "classification_failed"
	ErrClassifyOutput ErrorCode = "classification_invalid_output"

	// Decision policy errors
	ErrPolicyFailed ErrorCode = "policy_decision_failed"
	ErrEmptyReason  ErrorCode = "policy_empty_reason"

	// Actuator errors
	ErrDispatchFailed ErrorCode = "actuator_dispatch_failed"
	ErrUnknownDomain  ErrorCode = "actuator_unknown_domain"

	// History store errors
	ErrHistorySave ErrorCode = "history_save_failed"
	ErrHistoryLoad ErrorCode = "history_load_failed"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:          "Internal error occurred",
	ErrInvalidArgument:   "Invalid argument provided",
	ErrNotImplemented:    "Operation not implemented",
	ErrUnavailable:       "Service unavailable",
	ErrAlreadyRunning:    "Another instance is already running",
	ErrInvalidConfig:     "Invalid configuration",
	ErrMissingConfig:     "Missing configuration",
	ErrBindFlags:         "Failed to bind flags",
	ErrReadConfig:        "Failed to read configuration",
	ErrInvalidInterval:   "Invalid interval value",
	ErrInvalidLogLevel:   "Invalid log level",
	ErrInitFailed:        "Initialization failed",
	ErrShutdownFailed:    "Shutdown failed",
	ErrOperationFailed:   "Operation failed",
	ErrTimeout:           "Operation timed out",
	ErrInvalidOperation:  "Invalid operation",
	ErrInitApp:           "Failed to initialize application",
	ErrSessionRunning:    "Optimization session already running",
	ErrSessionStopped:    "Optimization session not running",
	ErrSignalUnavailable: "Signal provider cannot supply a snapshot",
	ErrSignalStale:       "Signal sample is older than allowed",
	ErrClassifyFailed:    "Sleep stage classification failed",
	ErrClassifyOutput:    "Classifier returned an invalid stage",
	ErrPolicyFailed:      "Decision policy call failed",
	ErrEmptyReason:       "Decision policy returned an action without a reason",
	ErrDispatchFailed:    "Failed to dispatch actuator command",
	ErrUnknownDomain:     "Unknown actuator domain",
	ErrHistorySave:       "Failed to persist quick action",
	ErrHistoryLoad:       "Failed to load quick action history",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
