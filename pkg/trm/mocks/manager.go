package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockManager implements trm.Manager.
type MockManager struct {
	mock.Mock
}

func NewMockManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockManager {
	m := &MockManager{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockManager) Do(ctx context.Context, callback func(ctx context.Context) error) error {
	args := m.Called(ctx, callback)
	if fn, ok := args.Get(0).(func(context.Context, func(context.Context) error) error); ok {
		return fn(ctx, callback)
	}
	return args.Error(0)
}

// PassThrough makes Do run the callback with the caller's context.
func (m *MockManager) PassThrough() *MockManager {
	m.On("Do", mock.Anything, mock.Anything).Return(
		func(ctx context.Context, cb func(ctx context.Context) error) error {
			return cb(ctx)
		}).Maybe()
	return m
}
