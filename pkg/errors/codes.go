package errors

// -----------------------------------------------------------------------------
// Configuration Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrConfigNotFound indicates the configuration or listing file does not exist.
	ErrConfigNotFound = "CONFIG_NOT_FOUND"

	// ErrConfigReadFailed indicates the file exists but could not be read.
	ErrConfigReadFailed = "CONFIG_READ_FAILED"

	// ErrConfigParseFailed indicates the file is not valid YAML or holds an
	// unknown condition name.
	ErrConfigParseFailed = "CONFIG_PARSE_FAILED"

	// ErrConfigInvalid indicates configuration values are invalid.
	ErrConfigInvalid = "CONFIG_INVALID"

	// ErrConfigWriteFailed indicates the config file could not be written.
	ErrConfigWriteFailed = "CONFIG_WRITE_FAILED"
)

// -----------------------------------------------------------------------------
// Validation Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrConditionInvalid indicates an agent carries a category outside the
	// five defined conditions.
	ErrConditionInvalid = "CONDITION_INVALID"

	// ErrAgentNameRequired indicates a listing entry has no name.
	ErrAgentNameRequired = "AGENT_NAME_REQUIRED"

	// ErrFormatUnsupported indicates an unknown output or export format.
	ErrFormatUnsupported = "FORMAT_UNSUPPORTED"
)

// -----------------------------------------------------------------------------
// Agent and Command Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrAgentNotFound indicates no agent in the listing has the given name.
	ErrAgentNotFound = "AGENT_NOT_FOUND"

	// ErrCommandUnknown indicates an unrecognized shell command.
	ErrCommandUnknown = "COMMAND_UNKNOWN"

	// ErrCommandInvalidArgs indicates wrong arguments to a shell command.
	ErrCommandInvalidArgs = "COMMAND_INVALID_ARGS"

	// ErrRoundNotFound indicates the requested round is not recorded.
	ErrRoundNotFound = "ROUND_NOT_FOUND"
)

// -----------------------------------------------------------------------------
// IO and Internal Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrExportFailed indicates an export could not be rendered.
	ErrExportFailed = "EXPORT_FAILED"

	// ErrIOWriteFailed indicates output could not be written.
	ErrIOWriteFailed = "IO_WRITE_FAILED"

	// ErrInternal indicates an unexpected internal state.
	ErrInternal = "INTERNAL_ERROR"
)
