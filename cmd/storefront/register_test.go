package main

import (
	"context"
	"errors"
	"testing"

	"github.com/example/storefront/pkg/discovery"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeRegistry struct {
	registerErr error
	discoverErr error
	peers       []*discovery.ServiceInstance
}

func (f *fakeRegistry) Register(context.Context, *discovery.ServiceInstance) error {
	return f.registerErr
}

func (f *fakeRegistry) Discover(context.Context, string) ([]*discovery.ServiceInstance, error) {
	return f.peers, f.discoverErr
}

var testInstance = &discovery.ServiceInstance{Name: "storefront", Host: "10.0.0.7", Port: 8080}

func TestRegisterLogsInstanceCount(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	reg := &fakeRegistry{peers: []*discovery.ServiceInstance{testInstance, {Name: "storefront", Host: "10.0.0.8", Port: 8080}}}

	assert.True(t, register(context.Background(), reg, testInstance, zap.New(core)))

	entries := logs.FilterMessage("Service registered in etcd").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, int64(2), entries[0].ContextMap()["instances"])
	}
}

func TestRegisterLogsDiscoverFailure(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	reg := &fakeRegistry{discoverErr: errors.New("etcdserver: request timed out")}

	assert.True(t, register(context.Background(), reg, testInstance, zap.New(core)))

	warnings := logs.FilterMessage("Failed to list registered instances").All()
	if assert.Len(t, warnings, 1) {
		assert.Equal(t, zapcore.WarnLevel, warnings[0].Level)
		assert.Equal(t, "etcdserver: request timed out", warnings[0].ContextMap()["error"])
	}
}

func TestRegisterFailure(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	reg := &fakeRegistry{registerErr: errors.New("lease grant failed")}

	assert.False(t, register(context.Background(), reg, testInstance, zap.New(core)))
	assert.Equal(t, 1, logs.FilterMessage("Failed to register service").Len())
	assert.Zero(t, logs.FilterMessage("Service registered in etcd").Len())
}
