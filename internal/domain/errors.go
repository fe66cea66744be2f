package domain

import "errors"

var (
	ErrSubmission      = errors.New("task submission failed")
	ErrPollTimeout     = errors.New("task poll budget exhausted")
	ErrTaskFailed      = errors.New("task failed")
	ErrFetch           = errors.New("asset fetch failed")
	ErrDecode          = errors.New("image decode failed")
	ErrRender          = errors.New("cover render failed")
	ErrMissingResource = errors.New("missing resource")
	ErrInvalidProduct  = errors.New("invalid product")
)
