package registry

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want Policy
	}{
		{"fail-fast", FailFast},
		{"FAIL_FAST", FailFast},
		{"failfast", FailFast},
		{" best-effort ", BestEffort},
		{"best_effort", BestEffort},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParsePolicy("sometimes")
	assert.Error(t, err)
}

func TestPolicyString(t *testing.T) {
	assert.Equal(t, "fail-fast", FailFast.String())
	assert.Equal(t, "best-effort", BestEffort.String())
	assert.Equal(t, "Policy(7)", Policy(7).String())
}

func square(_ context.Context, n int) (int, error) {
	if n < 0 {
		return 0, errors.New("negative")
	}
	return n * n, nil
}

func itoa(n int) string {
	if n < 0 {
		return "-" + string(rune('0'-n))
	}
	return string(rune('0' + n))
}

func TestRunPolicy_FailFastStops(t *testing.T) {
	var calls []int
	fn := func(ctx context.Context, n int) (int, error) {
		calls = append(calls, n)
		return square(ctx, n)
	}

	out := RunPolicy(context.Background(), FailFast, []int{1, -2, 3}, itoa, fn)
	assert.Equal(t, []int{1, -2}, calls)
	require.Len(t, out, 2)

	res, err := Collect(out, FailFast)
	assert.EqualError(t, err, "negative")
	assert.Nil(t, res)
}

func TestRunPolicy_BestEffort(t *testing.T) {
	out := RunPolicy(context.Background(), BestEffort, []int{1, -2, 3}, itoa, square)
	require.Len(t, out, 3)

	res, err := Collect(out, BestEffort)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "1", res[0].Address)
	assert.Equal(t, 1, res[0].Value)
	assert.Equal(t, "3", res[1].Address)
	assert.Equal(t, 9, res[1].Value)

	bad := Failed(out)
	require.Len(t, bad, 1)
	assert.Equal(t, "-2", bad[0].Address)
}

func TestCollect_AllSucceed(t *testing.T) {
	out := Run(context.Background(), []int{2, 3}, itoa, square)
	for _, p := range []Policy{FailFast, BestEffort} {
		res, err := Collect(out, p)
		require.NoError(t, err)
		assert.Len(t, res, 2)
	}
}

func TestRun_Empty(t *testing.T) {
	out := Run(context.Background(), nil, itoa, square)
	assert.Empty(t, out)
	res, err := Collect(out, FailFast)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestCollect_BestEffortReportsCancellation(t *testing.T) {
	out := []Outcome[int]{
		{Address: "a", Value: 1},
		{Address: "b", Err: errors.New("denied")},
		{Address: "c", Err: fmt.Errorf("list c: %w", context.DeadlineExceeded)},
	}
	res, err := Collect(out, BestEffort)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, res)

	res, err = Collect(out[:2], BestEffort)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "a", res[0].Address)
}
