package main

import "errors"

// Sentinel errors for command operations
var (
	ErrNoInput             = errors.New("no input: pass pattern files, -e expressions or configure inputs")
	ErrMissingDBOrEnv      = errors.New("missing database: pass --env or --dsn")
	ErrDBAndEnvExclusive   = errors.New("--env and --dsn are mutually exclusive")
	ErrValidationFailed    = errors.New("validation failed")
	ErrInvalidOutputFormat = errors.New("invalid output format")
)
