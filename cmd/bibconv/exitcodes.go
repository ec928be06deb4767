package main

// Exit codes shared by every bibconv command
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, I/O failure)
	ExitConfigError = 2 // Configuration error (bad dialect, unreadable config)
	ExitDataError   = 3 // Data error (malformed bibliography, strict-mode diagnostics)
)
