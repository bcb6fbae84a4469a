package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure, lookup not found)
	ExitConfigError = 2 // Configuration error (invalid config file or values)
	ExitDataError   = 3 // Data error (unsupported or unreadable document)
	ExitAuthError   = 4 // Missing or rejected API key for an external service
)
