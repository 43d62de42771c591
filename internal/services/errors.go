package services

import "errors"

// ErrInvalidInput marks structural input errors: missing plan fields,
// out-of-range indexes, a day that cannot hold a single session. These
// abort the operation. Content-generation failures are never wrapped in
// this (or any) error; they degrade to fallback values instead.
var ErrInvalidInput = errors.New("invalid input")
