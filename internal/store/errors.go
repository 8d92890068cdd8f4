package store

import "errors"

var (
	ErrMissingID        = errors.New("product has no id")
	ErrBrandInUse       = errors.New("brand is used by one or more products")
	ErrInvalidBrandName = errors.New("brand name must not be blank")
)
