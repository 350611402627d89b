package main

// Exit codes for the CLI
const (
	ExitSuccess          = 0
	ExitGeneralError     = 1
	ExitUnreachable      = 2
	ExitNotConfigured    = 3
	ExitNotFound         = 4
	ExitPermissionDenied = 5
	ExitRateLimited      = 6
)
