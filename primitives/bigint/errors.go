package bigint

import "errors"

// Errors returned by BigInt256 construction.
var (
	ErrInvalidLength = errors.New("bigint: value exceeds 256 bits")
	ErrNegative      = errors.New("bigint: negative value not representable")
)
