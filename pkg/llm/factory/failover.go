package factory

import (
	"context"
	"errors"

	"querynotes-be/internal/pkg/logger"
	"querynotes-be/pkg/llm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	MsgBothProvidersFailed = "Both primary and fallback AI services failed."
	MsgNoFallback          = "The primary AI service failed and no fallback is available."
)

var tracer = otel.Tracer("querynotes-be/pkg/llm/factory")

// Call describes one model invocation to run against primary, then fallback.
type Call[T any] struct {
	// Operation names the call in logs and spans, e.g. "chat" or "summary".
	Operation string
	// Invoke performs the request against the given model.
	Invoke func(ctx context.Context, model llm.LLMProvider) (T, error)
	// Validate classifies a returned value; a non-nil error counts as a failed attempt.
	Validate func(T) error
}

type Result[T any] struct {
	Value        T
	Provider     llm.Descriptor
	UsedFallback bool
}

// FailoverError is returned when no attempt succeeded.
type FailoverError struct {
	Primary     string
	PrimaryErr  error
	Fallback    string // empty when no fallback was configured
	FallbackErr error
}

func (e *FailoverError) Error() string {
	if e.Fallback == "" {
		return MsgNoFallback
	}
	return MsgBothProvidersFailed
}

func (e *FailoverError) Unwrap() []error {
	errs := []error{e.PrimaryErr}
	if e.FallbackErr != nil {
		errs = append(errs, e.FallbackErr)
	}
	return errs
}

// AttemptWithFallback runs call against the primary model and, only if that
// fails, exactly once against the fallback model.
func AttemptWithFallback[T any](ctx context.Context, models ModelResolver, log logger.ILogger, call Call[T]) (*Result[T], error) {
	primary := models.Primary()

	value, err := attempt(ctx, log, call, primary, "primary", func() (llm.LLMProvider, error) {
		return models.GetModel("")
	})
	if err == nil {
		return &Result[T]{Value: value, Provider: primary}, nil
	}

	failure := &FailoverError{Primary: primary.Name, PrimaryErr: err}

	fallback := models.Fallback()
	if fallback == nil {
		log.Error("LLM", "Primary provider failed and no fallback is configured", map[string]interface{}{
			"operation": call.Operation,
			"provider":  primary.Name,
			"error":     err.Error(),
		})
		return nil, failure
	}

	log.Warn("LLM", "Switching to fallback provider", map[string]interface{}{
		"operation": call.Operation,
		"from":      primary.Name,
		"to":        fallback.Name,
	})

	value, err = attempt(ctx, log, call, *fallback, "fallback", func() (llm.LLMProvider, error) {
		return models.GetFallbackModel("")
	})
	if err == nil {
		return &Result[T]{Value: value, Provider: *fallback, UsedFallback: true}, nil
	}

	failure.Fallback = fallback.Name
	failure.FallbackErr = err
	log.Error("LLM", "Fallback provider also failed", map[string]interface{}{
		"operation": call.Operation,
		"provider":  fallback.Name,
		"error":     err.Error(),
	})
	return nil, failure
}

func attempt[T any](
	ctx context.Context,
	log logger.ILogger,
	call Call[T],
	desc llm.Descriptor,
	role string,
	resolve func() (llm.LLMProvider, error),
) (T, error) {
	var zero T

	ctx, span := tracer.Start(ctx, "llm.attempt", trace.WithAttributes(
		attribute.String("llm.provider", desc.Name),
		attribute.String("llm.provider.role", role),
		attribute.String("llm.operation", call.Operation),
	))
	defer span.End()

	log.Info("LLM", "Attempting "+call.Operation+" with "+desc.Name, map[string]interface{}{
		"provider": desc.Name,
		"role":     role,
	})

	model, err := resolve()
	if err == nil && model == nil {
		err = &InvalidModelError{Role: role}
	}
	if err != nil {
		return zero, fail(span, log, desc, role, err)
	}

	value, err := call.Invoke(ctx, model)
	if err == nil && call.Validate != nil {
		err = call.Validate(value)
	}
	if err != nil {
		return zero, fail(span, log, desc, role, err)
	}

	span.SetStatus(codes.Ok, "")
	return value, nil
}

func fail(span trace.Span, log logger.ILogger, desc llm.Descriptor, role string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	var invalid *InvalidModelError
	if errors.As(err, &invalid) {
		log.Error("LLM", invalid.Error(), map[string]interface{}{"provider": desc.Name, "role": role})
		return err
	}

	log.Warn("LLM", "Provider attempt failed", map[string]interface{}{
		"provider": desc.Name,
		"role":     role,
		"error":    err.Error(),
	})
	return err
}
