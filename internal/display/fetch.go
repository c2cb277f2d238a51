package display

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrDecode marks a response body that is not a JSON object with a string
// message field.
var ErrDecode = errors.New("decode message")

// StatusError reports a non-success HTTP status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.Code, http.StatusText(e.Code))
}

type messageBody struct {
	Message *string `json:"message"`
}

func (c *Component) fetch(ctx context.Context) (string, error) {
	ctx, span := c.tracer.Start(ctx, "display.fetch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("display.endpoint", c.endpoint)))
	defer span.End()

	message, err := c.get(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return "", err
	}
	return message, nil
}

func (c *Component) get(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.target, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", c.endpoint, err)
	}
	if resp.Body == nil {
		return "", fmt.Errorf("%w: empty body", ErrDecode)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("fetch %s: %w", c.endpoint, &StatusError{Code: resp.StatusCode})
	}

	var body messageBody
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&body); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	// The body must hold exactly one JSON value.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%w: trailing data after message", ErrDecode)
	}
	if body.Message == nil {
		return "", fmt.Errorf("%w: missing message field", ErrDecode)
	}
	return *body.Message, nil
}
