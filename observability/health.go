package observability

import (
	"context"

	"github.com/kbukum/typedflow/component"
)

// ServiceHealth describes the overall health of the service and its components.
type ServiceHealth struct {
	Service    string                 `json:"service"`
	Status     component.HealthStatus `json:"status"`
	Version    string                 `json:"version,omitempty"`
	Components []component.Health     `json:"components,omitempty"`
}

// HealthSource reports the health of a set of components.
type HealthSource interface {
	HealthAll(ctx context.Context) []component.Health
}

// NewServiceHealth creates a ServiceHealth with status healthy.
func NewServiceHealth(service, version string) *ServiceHealth {
	return &ServiceHealth{
		Service: service,
		Status:  component.StatusHealthy,
		Version: version,
	}
}

// AddComponent adds a component health result and degrades overall status if needed.
func (sh *ServiceHealth) AddComponent(h component.Health) {
	sh.Components = append(sh.Components, h)
	sh.Status = component.Overall(sh.Components)
}

// Check collects health from src into a new ServiceHealth.
func Check(ctx context.Context, service, version string, src HealthSource) *ServiceHealth {
	sh := NewServiceHealth(service, version)
	if src == nil {
		return sh
	}
	for _, h := range src.HealthAll(ctx) {
		sh.AddComponent(h)
	}
	return sh
}

// Healthy reports whether no component is unhealthy.
func (sh *ServiceHealth) Healthy() bool {
	return sh.Status != component.StatusUnhealthy
}
