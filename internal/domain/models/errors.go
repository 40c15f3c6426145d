package models

import "errors"

var (
	// ErrUnknownProduct indicates a label that matches none of the station's products.
	ErrUnknownProduct = errors.New("unknown fuel product")

	// ErrInvalidInput indicates a record that failed validation.
	ErrInvalidInput = errors.New("invalid input")
)
