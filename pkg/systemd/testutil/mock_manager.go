// Package testutil provides a testify mock of systemd.Manager
package testutil

import (
	"context"

	"github.com/arthur-debert/cfgmigrate/pkg/types"
	"github.com/stretchr/testify/mock"
)

// MockManager is a testify mock implementing systemd.Manager
type MockManager struct {
	mock.Mock
}

// ListServices implements systemd.Manager
func (m *MockManager) ListServices(ctx context.Context) ([]types.Service, error) {
	args := m.Called(ctx)
	services, _ := args.Get(0).([]types.Service)
	return services, args.Error(1)
}

// Stop implements systemd.Manager
func (m *MockManager) Stop(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

// Start implements systemd.Manager
func (m *MockManager) Start(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

// CallsTo returns the unit names passed to method, in call order
func (m *MockManager) CallsTo(method string) []string {
	var names []string
	for _, call := range m.Calls {
		if call.Method == method && len(call.Arguments) > 1 {
			names = append(names, call.Arguments.String(1))
		}
	}
	return names
}
