package main

import (
	"context"

	"github.com/example/storefront/pkg/discovery"
	"go.uber.org/zap"
)

type registry interface {
	Register(ctx context.Context, instance *discovery.ServiceInstance) error
	Discover(ctx context.Context, serviceName string) ([]*discovery.ServiceInstance, error)
}

// register announces instance and logs how many instances share its name.
// Failures are logged; the process keeps serving without discovery.
func register(ctx context.Context, reg registry, instance *discovery.ServiceInstance, log *zap.Logger) bool {
	if err := reg.Register(ctx, instance); err != nil {
		log.Warn("Failed to register service", zap.Error(err))
		return false
	}

	peers, err := reg.Discover(ctx, instance.Name)
	if err != nil {
		log.Warn("Failed to list registered instances", zap.Error(err))
	}
	log.Info("Service registered in etcd",
		zap.String("address", instance.Addr()),
		zap.Int("instances", len(peers)))
	return true
}
