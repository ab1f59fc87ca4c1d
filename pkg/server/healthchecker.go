package server

import "context"

type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

// HealthFunc adapts a func to HealthChecker, e.g. a storage ping.
type HealthFunc func(ctx context.Context) bool

func (f HealthFunc) Healthy(ctx context.Context) bool {
	return f(ctx)
}

type OkHealthChecker struct {
}

func NewOkHealthChecker() *OkHealthChecker {
	return &OkHealthChecker{}
}

func (hc *OkHealthChecker) Healthy(ctx context.Context) bool {
	return true
}
