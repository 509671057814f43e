package model

import "errors"

// Error kinds reported by block operations and the interpreter. Failures wrap
// one of these with the offending instruction or block details, so callers
// can classify them with errors.Is.
var (
	ErrInvalidCut              = errors.New("invalid cut")
	ErrInvalidMerge            = errors.New("invalid merge")
	ErrInvalidSwap             = errors.New("invalid swap")
	ErrUnknownBlock            = errors.New("unknown block id")
	ErrUnrecognizedInstruction = errors.New("unrecognized instruction")
)
