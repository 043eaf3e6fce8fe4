package redis

import "errors"

var (
	ErrEmptyURL          = errors.New("redis: empty connection URL")
	ErrParseURL          = errors.New("redis: failed to parse connection URL")
	ErrConnectionFailed  = errors.New("redis: failed to establish connection")
	ErrHealthcheckFailed = errors.New("redis: healthcheck failed")
)
