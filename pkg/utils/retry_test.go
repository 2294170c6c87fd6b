package utils_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SergeyBogomolovv/storefront-orders/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestRetry(t *testing.T) {
	errTemporary := errors.New("temporary")
	errPermanent := errors.New("permanent")
	cfg := utils.RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, Multiplier: 2}

	testCases := []struct {
		name      string
		results   []error
		wantErr   error
		wantCalls int
	}{
		{name: "first attempt succeeds", results: []error{nil}, wantCalls: 1},
		{name: "succeeds after failure", results: []error{errTemporary, nil}, wantCalls: 2},
		{name: "attempts exhausted", results: []error{errTemporary, errTemporary, errTemporary}, wantErr: errTemporary, wantCalls: 3},
		{name: "permanent error stops", results: []error{errPermanent}, wantErr: errPermanent, wantCalls: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			err := utils.Retry(context.Background(), cfg, func() error {
				err := tc.results[calls]
				calls++
				return err
			}, errPermanent)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.wantCalls, calls)
		})
	}
}

func TestRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := utils.Retry(ctx, utils.RetryConfig{MaxAttempts: 5, InitialDelay: time.Second}, func() error {
		calls++
		return errors.New("boom")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
