package service

import "errors"

// Sentinel errors returned by the Service.
var (
	ErrNotStarted           = errors.New("service not started")
	ErrConfirmationRequired = errors.New("clear requires confirmation")
	ErrPersist              = errors.New("persist kickout log failed")
)
