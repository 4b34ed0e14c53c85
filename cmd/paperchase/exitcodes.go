package main

// Exit codes shared by all commands.
const (
	ExitSuccess       = 0 // Success
	ExitError         = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError   = 2 // Configuration error (missing config, invalid paths)
	ExitBackendError  = 3 // Model backend unavailable (Ollama down, remote API failure)
	ExitIndexNotFound = 4 // Index missing; run 'paperchase index build'
	ExitDataError     = 5 // Data error (malformed input, validation failure)
)
