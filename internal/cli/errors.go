// Package cli implements the command-line interface.
package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Scene errors
	ErrSceneNotFound = "SCENE_NOT_FOUND"
	ErrSceneInvalid  = "SCENE_INVALID"

	// Query errors
	ErrQueryEmpty      = "QUERY_EMPTY"
	ErrQueryNotFound   = "QUERY_NOT_FOUND"
	ErrSearchCancelled = "SEARCH_CANCELLED"

	// Lookup errors
	ErrPageNotFound  = "PAGE_NOT_FOUND"
	ErrNodeNotFound  = "NODE_NOT_FOUND"
	ErrTopicNotFound = "TOPIC_NOT_FOUND"
	ErrNoLastSearch  = "NO_LAST_SEARCH"

	// Config and state errors
	ErrConfigInvalid  = "CONFIG_INVALID"
	ErrStateInvalid   = "STATE_INVALID"
	ErrFileNotFound   = "FILE_NOT_FOUND"
	ErrFileReadError  = "FILE_READ_ERROR"
	ErrFileWriteError = "FILE_WRITE_ERROR"

	// History errors
	ErrHistoryError = "HISTORY_ERROR"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes for non-fatal conditions reported alongside results.
const (
	WarnHistoryUnavailable = "HISTORY_UNAVAILABLE"
	WarnHistoryRebuilt     = "HISTORY_REBUILT"
	WarnStateNotSaved      = "STATE_NOT_SAVED"
	WarnLastSearchNotSaved = "LAST_SEARCH_NOT_SAVED"
	WarnPageNotFound       = "PAGE_NOT_FOUND"
	WarnSelectionStale     = "SELECTION_STALE"
)
