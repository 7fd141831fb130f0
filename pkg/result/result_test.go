package result_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonny/slackgw/pkg/apierror"
	"github.com/jonny/slackgw/pkg/result"
)

func TestMatch_Success(t *testing.T) {
	r := result.Success(42)

	got := result.Match(r,
		func(v int) string { return fmt.Sprintf("ok:%d", v) },
		func(e apierror.Error) string { return "fail:" + e.Details },
	)

	assert.Equal(t, "ok:42", got)
	assert.True(t, r.IsSuccess())
	assert.False(t, r.IsFailure())
	assert.Equal(t, 42, r.Value())
}

func TestMatch_Failure(t *testing.T) {
	errs := []apierror.Error{
		apierror.New("boom"),
		apierror.WithCode("channel_not_found", "channel_not_found"),
		{},
	}
	for _, e := range errs {
		r := result.Failure[int](e)
		got := result.Match(r,
			func(int) apierror.Error { return apierror.New("unexpected") },
			func(fe apierror.Error) apierror.Error { return fe },
		)
		assert.Equal(t, e, got)
		assert.True(t, r.IsFailure())
	}
}

func TestFailureMessage_HasEmptyCode(t *testing.T) {
	r := result.FailureMessage[string]("something broke")

	require.True(t, r.IsFailure())
	assert.Equal(t, "", r.Err().Code)
	assert.Equal(t, "something broke", r.Err().Details)
	assert.Len(t, r.Errors(), 1)
}

func TestFailureAggregate(t *testing.T) {
	r := result.FailureAggregate[string]("2 messages failed",
		apierror.WithCode("a", "first"),
		apierror.WithCode("b", "second"),
	)

	require.True(t, r.IsFailure())
	assert.Equal(t, "2 messages failed", r.Err().Details)
	assert.Equal(t, "2 messages failed", r.Err().Message)
	require.Len(t, r.Errors(), 2)
	assert.Equal(t, "b", r.Errors()[1].Code)
	assert.Equal(t, "first; second", r.Err().Summary())
}

func TestWrongSideAccess_Panics(t *testing.T) {
	assert.Panics(t, func() { _ = result.FailureMessage[int]("x").Value() })
	assert.Panics(t, func() { _ = result.Success(1).Err() })
}

func TestZeroResult_Panics(t *testing.T) {
	var r result.Result[int]
	assert.Panics(t, func() { _ = r.IsSuccess() })
	assert.Panics(t, func() {
		result.Match(r, func(int) int { return 0 }, func(apierror.Error) int { return 1 })
	})
}

func TestSwitch_RunsOneBranch(t *testing.T) {
	var successes, failures int
	onS := func(string) { successes++ }
	onF := func(apierror.Error) { failures++ }

	result.Success("v").Switch(onS, onF)
	result.FailureMessage[string]("e").Switch(onS, onF)

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, failures)
}

func TestFromError(t *testing.T) {
	wrapped := fmt.Errorf("calling api: %w", apierror.WithCode("rate_limited", "slow down"))
	r := result.FromError[int](wrapped)
	assert.Equal(t, "rate_limited", r.Err().Code)

	plain := result.FromError[int](errors.New("plain"))
	assert.Equal(t, "", plain.Err().Code)
	assert.Equal(t, "plain", plain.Err().Details)

	assert.Equal(t, 7, result.FromValue(7).Value())
}

func TestMap(t *testing.T) {
	double := func(v int) int { return v * 2 }

	assert.Equal(t, 4, result.Map(result.Success(2), double).Value())

	failed := result.Map(result.FailureMessage[int]("nope"), double)
	assert.Equal(t, "nope", failed.Err().Details)
}
