package snapdomain

import "errors"

// Errors returned by the configuration and facade layer
var (
	// ErrNoEnvironment is returned when a database is requested without naming one and no default is configured.
	ErrNoEnvironment = errors.New("no database environment specified")
	// ErrUnknownEnvironment is returned when a named database environment is not configured.
	ErrUnknownEnvironment = errors.New("unknown database environment")
	// ErrNoExpressions reports a document that contains variable definitions only.
	ErrNoExpressions = errors.New("document contains no expressions")
)
