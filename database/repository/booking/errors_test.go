package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestClassifyScan(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unavailable", status.Error(codes.Unavailable, "transport closing"), ErrStoreUnavailable},
		{"deadline", status.Error(codes.DeadlineExceeded, "deadline exceeded"), ErrStoreUnavailable},
		{"context deadline", context.DeadlineExceeded, ErrStoreUnavailable},
		{"invalid filter", status.Error(codes.InvalidArgument, "bad filter"), ErrQuery},
		{"permission", status.Error(codes.PermissionDenied, "denied"), ErrQuery},
		{"plain error", errors.New("boom"), ErrQuery},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyScan(tt.err)
			assert.True(t, errors.Is(got, tt.want), "got %v", got)
		})
	}
}

func TestClassifyCommit(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"aborted", status.Error(codes.Aborted, "too much contention"), ErrCommitConflict},
		{"precondition", status.Error(codes.FailedPrecondition, "stale read"), ErrCommitConflict},
		{"unavailable", status.Error(codes.Unavailable, "transport closing"), ErrStoreUnavailable},
		{"context canceled", context.Canceled, ErrStoreUnavailable},
		{"plain error", errors.New("boom"), ErrCommitConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyCommit(tt.err)
			assert.True(t, errors.Is(got, tt.want), "got %v", got)
		})
	}
}

func TestClassifyCommitKeepsPartialState(t *testing.T) {
	wrapped := fmt.Errorf("%w: slot S1/A1 referenced by booking b1", ErrPartialState)
	got := classifyCommit(wrapped)
	assert.True(t, errors.Is(got, ErrPartialState))
	assert.False(t, errors.Is(got, ErrCommitConflict))
}
