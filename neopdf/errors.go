// Package neopdf provides interpolation of tabulated parton distribution
// functions and transverse-momentum-dependent distributions, and a compact
// compressed container format for storing collections of such grids.
package neopdf

import "errors"

// Common errors
var (
	ErrInvalidAxis        = errors.New("invalid axis")
	ErrInvalidQuery       = errors.New("invalid query")
	ErrUnknownFlavor      = errors.New("unknown flavor")
	ErrOutOfRange         = errors.New("point outside grid range")
	ErrEmptyCollection    = errors.New("collection has no members")
	ErrFlavorMismatch     = errors.New("flavor list mismatch")
	ErrCorruptContainer   = errors.New("corrupt or truncated container")
	ErrUnsupportedVersion = errors.New("unsupported container version")
)
