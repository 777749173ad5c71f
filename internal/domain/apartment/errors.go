package apartment

import "errors"

var (
	ErrApartmentNotFound = errors.New("apartment not found")
)
