package scan

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrNotFound is returned by a StatusSink for an unknown scan id.
	ErrNotFound = goerr.New("scan not found")

	// ErrTerminal is returned when updating a scan that is already done or failed.
	ErrTerminal = goerr.New("scan already finished")

	// ErrInvalidTransition is returned for a status change the lifecycle does not allow.
	ErrInvalidTransition = goerr.New("invalid scan status transition")
)

// ErrEmptyURL is returned by Submit when no URL is given.
var ErrEmptyURL = goerr.New("scan url is empty")
