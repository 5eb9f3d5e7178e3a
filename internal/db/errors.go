package db

import "errors"

// ErrIndexExists is returned by CreateIndex when the index is already defined.
var ErrIndexExists = errors.New("db: index already exists")

// Op constants map to Valkey/Redis command names for error context.
const (
	OpCreateIndex = "FT.CREATE"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpHGetAll     = "HGETALL"
	OpHSet        = "HSET"
	OpHIncrBy     = "HINCRBY"
	OpZIncrBy     = "ZINCRBY"
	OpZRevRange   = "ZREVRANGE"
	OpScan        = "SCAN"
	OpExpire      = "EXPIRE"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
