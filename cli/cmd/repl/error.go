package repl

import (
	"errors"
	"strconv"
)

// Sentinel errors.
var (
	ErrHistoryIndex = errors.New("history index out of range")
	ErrEditDeclined = errors.New("expression edit declined")
	ErrNoProgram    = errors.New("no expression evaluated yet")

	// ErrUsage is wrapped by every malformed control command.
	ErrUsage = errors.New("usage")

	ErrCount = usageError("count [1.." + strconv.Itoa(maxCount) + "]")
	ErrSeed  = usageError("seed [N], N an unsigned 64-bit integer")
)

// usageError reports the accepted form of a control command.
type usageError string

func (e usageError) Error() string { return "usage: " + string(e) }

func (usageError) Unwrap() error { return ErrUsage }
