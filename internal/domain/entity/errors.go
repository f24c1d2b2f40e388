package entity

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrTimeout     = errors.New("timed out")
	ErrClickFailed = errors.New("click failed")
	ErrInterrupted = errors.New("interrupted by user")
)
