// Package result provides a success-or-failure value used to report
// application outcomes without panics or sentinel values.
package result

import (
	"errors"

	"github.com/samber/mo"

	"github.com/jonny/slackgw/pkg/apierror"
)

// Result is either a success holding a T or a failure holding an
// apierror.Error. The zero value is invalid; use Success or Failure.
type Result[T any] struct {
	either mo.Either[apierror.Error, T]
	valid  bool
}

func Success[T any](value T) Result[T] {
	return Result[T]{either: mo.Right[apierror.Error, T](value), valid: true}
}

func Failure[T any](err apierror.Error) Result[T] {
	return Result[T]{either: mo.Left[apierror.Error, T](err), valid: true}
}

// FailureMessage builds a failure from details alone; the code is empty.
func FailureMessage[T any](details string) Result[T] {
	return Failure[T](apierror.New(details))
}

// FailureAggregate builds a failure carrying granular sub-errors.
func FailureAggregate[T any](message string, errs ...apierror.Error) Result[T] {
	return Failure[T](apierror.Aggregate(message, errs...))
}

// FromValue is Success under the name used at conversion sites.
func FromValue[T any](value T) Result[T] {
	return Success(value)
}

// FromError converts a Go error into a failure. An apierror.Error anywhere in
// the chain is used as-is.
func FromError[T any](err error) Result[T] {
	var apiErr apierror.Error
	if errors.As(err, &apiErr) {
		return Failure[T](apiErr)
	}
	return FailureMessage[T](err.Error())
}

func (r Result[T]) mustBeValid() {
	if !r.valid {
		panic("result: use of zero Result; construct with Success or Failure")
	}
}

func (r Result[T]) IsSuccess() bool {
	r.mustBeValid()
	return r.either.IsRight()
}

func (r Result[T]) IsFailure() bool {
	r.mustBeValid()
	return r.either.IsLeft()
}

// Value returns the success value. It panics on a failure.
func (r Result[T]) Value() T {
	r.mustBeValid()
	if r.either.IsLeft() {
		panic("result: Value called on a failure")
	}
	return r.either.MustRight()
}

// Err returns the failure. It panics on a success.
func (r Result[T]) Err() apierror.Error {
	r.mustBeValid()
	if r.either.IsRight() {
		panic("result: Err called on a success")
	}
	return r.either.MustLeft()
}

// Errors returns the granular sub-errors of a failure. A failure without
// sub-errors reports itself as its only entry. A success has none.
func (r Result[T]) Errors() []apierror.Error {
	if r.IsSuccess() {
		return nil
	}
	e := r.Err()
	if len(e.Errors) == 0 {
		return []apierror.Error{e}
	}
	return e.Errors
}

// Switch runs exactly one of the callbacks.
func (r Result[T]) Switch(onSuccess func(T), onFailure func(apierror.Error)) {
	if r.IsSuccess() {
		onSuccess(r.either.MustRight())
		return
	}
	onFailure(r.either.MustLeft())
}

// Match folds r into an R by running exactly one of the callbacks.
func Match[T, R any](r Result[T], onSuccess func(T) R, onFailure func(apierror.Error) R) R {
	if r.IsSuccess() {
		return onSuccess(r.either.MustRight())
	}
	return onFailure(r.either.MustLeft())
}

// Map transforms the success value and passes failures through.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	return Match(r,
		func(v T) Result[U] { return Success(fn(v)) },
		func(e apierror.Error) Result[U] { return Failure[U](e) },
	)
}
