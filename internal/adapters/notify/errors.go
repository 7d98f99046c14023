package notify

import "errors"

var (
	ErrPublish = errors.New("publish failed")
	ErrClosed  = errors.New("notifier closed")
)
