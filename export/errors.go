package export

import "errors"

// Connection errors
var (
	ErrConnectionFailed    = errors.New("failed to connect to database")
	ErrInvalidDatabaseURL  = errors.New("invalid database URL")
	ErrUnsupportedDatabase = errors.New("unsupported database type")
	ErrEmptyDatabaseURL    = errors.New("database URL cannot be empty")
)

// Store errors
var (
	ErrInvalidTableName = errors.New("invalid table name")
	ErrSaveFailed       = errors.New("failed to save results")
)

// Output errors
var (
	ErrInvalidOutputFormat = errors.New("invalid output format")
)
