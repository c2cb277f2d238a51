package display

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingDoer struct {
	mu      sync.Mutex
	urls    []string
	respond func(*http.Request) (*http.Response, error)
}

func (d *recordingDoer) Do(req *http.Request) (*http.Response, error) {
	d.mu.Lock()
	d.urls = append(d.urls, req.URL.String())
	d.mu.Unlock()
	return d.respond(req)
}

func (d *recordingDoer) calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.urls...)
}

func jsonResponse(status int, body string) func(*http.Request) (*http.Response, error) {
	return func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(body)),
		}, nil
	}
}

func waitSettled(t *testing.T, c *Component) State {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	state, err := c.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	return state
}

func TestMountFetchesEndpointOnceAndLoadsMessage(t *testing.T) {
	t.Parallel()

	doer := &recordingDoer{respond: jsonResponse(http.StatusOK, `{"message": "Hello World from Dockerized App!"}`)}
	c, err := New(Options{Endpoint: "http://localhost:8000", Client: doer})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	c.Mount(context.Background())
	got := waitSettled(t, c)

	want := State{Phase: PhaseLoaded, Message: "Hello World from Dockerized App!"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"http://localhost:8000"}, doer.calls()); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestStateIsLoadingUntilFetchSettles(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	doer := &recordingDoer{respond: func(req *http.Request) (*http.Response, error) {
		<-release
		return jsonResponse(http.StatusOK, `{"message": "late"}`)(req)
	}}
	c, err := New(Options{Endpoint: "http://localhost:8000", Client: doer})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := c.State(); got != InitialState() {
		t.Fatalf("State() before mount = %+v, want %+v", got, InitialState())
	}
	c.Mount(context.Background())
	if got := c.State(); got.Message != LoadingText || got.Phase != PhaseLoading {
		t.Fatalf("State() after mount = %+v, want loading placeholder", got)
	}
	select {
	case <-c.Done():
		t.Fatal("Done() closed before the fetch was released")
	default:
	}

	close(release)
	if got := waitSettled(t, c); got.Message != "late" {
		t.Fatalf("Message = %q, want %q", got.Message, "late")
	}
}

func TestFetchFailuresSettleIntoErrorState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		respond func(*http.Request) (*http.Response, error)
		detail  string
	}{
		{
			name: "transport error",
			respond: func(*http.Request) (*http.Response, error) {
				return nil, errors.New("dial tcp: connection refused")
			},
			detail: "connection refused",
		},
		{
			name:    "server error",
			respond: jsonResponse(http.StatusInternalServerError, `{"message": "boom"}`),
			detail:  "unexpected status 500",
		},
		{
			name:    "not found",
			respond: jsonResponse(http.StatusNotFound, `not found`),
			detail:  "unexpected status 404",
		},
		{
			name:    "invalid json",
			respond: jsonResponse(http.StatusOK, `<html>`),
			detail:  "decode message",
		},
		{
			name:    "missing message",
			respond: jsonResponse(http.StatusOK, `{"status": "ok"}`),
			detail:  "missing message field",
		},
		{
			name:    "trailing garbage",
			respond: jsonResponse(http.StatusOK, `{"message": "hi"} not json`),
			detail:  "trailing data after message",
		},
		{
			name:    "concatenated objects",
			respond: jsonResponse(http.StatusOK, `{"message": "hi"}{"message": "again"}`),
			detail:  "trailing data after message",
		},
		{
			name:    "message not a string",
			respond: jsonResponse(http.StatusOK, `{"message": 42}`),
			detail:  "decode message",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zap.DebugLevel)
			doer := &recordingDoer{respond: tc.respond}
			c, err := New(Options{Endpoint: "http://localhost:8000", Client: doer, Logger: zap.New(core)})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			c.Mount(context.Background())
			got := waitSettled(t, c)

			if got.Phase != PhaseErrored {
				t.Fatalf("Phase = %v, want %v", got.Phase, PhaseErrored)
			}
			if got.Error != ErrorText {
				t.Fatalf("Error = %q, want %q", got.Error, ErrorText)
			}
			if strings.Contains(got.Error, tc.detail) || strings.Contains(got.Message, tc.detail) {
				t.Fatalf("state leaks failure detail %q: %+v", tc.detail, got)
			}

			entries := logs.FilterMessage("display fetch failed").All()
			if len(entries) != 1 {
				t.Fatalf("logged %d failure entries, want 1", len(entries))
			}
			logged, ok := entries[0].ContextMap()["error"].(string)
			if !ok || !strings.Contains(logged, tc.detail) {
				t.Fatalf("logged error = %v, want it to contain %q", entries[0].ContextMap()["error"], tc.detail)
			}
			if n := len(doer.calls()); n != 1 {
				t.Fatalf("calls = %d, want 1", n)
			}
		})
	}
}

func TestMountAndStateDoNotRefetch(t *testing.T) {
	t.Parallel()

	doer := &recordingDoer{respond: jsonResponse(http.StatusOK, `{"message": "once"}`)}
	c, err := New(Options{Endpoint: "http://localhost:8000", Client: doer})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	c.Mount(context.Background())
	c.Mount(context.Background())
	first := waitSettled(t, c)
	c.Mount(context.Background())
	for i := 0; i < 3; i++ {
		if got := c.State(); got != first {
			t.Fatalf("State() = %+v, want %+v", got, first)
		}
	}
	if n := len(doer.calls()); n != 1 {
		t.Fatalf("calls = %d, want 1", n)
	}
}

func TestRelativeEndpointResolvesAgainstBaseURL(t *testing.T) {
	t.Parallel()

	doer := &recordingDoer{respond: jsonResponse(http.StatusOK, `{"message": "proxied"}`)}
	c, err := New(Options{Endpoint: "/api/", BaseURL: "http://frontend:3000/ignored", Client: doer})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.Endpoint() != "/api/" {
		t.Fatalf("Endpoint() = %q, want %q", c.Endpoint(), "/api/")
	}
	if c.Target() != "http://frontend:3000/api/" {
		t.Fatalf("Target() = %q, want %q", c.Target(), "http://frontend:3000/api/")
	}

	c.Mount(context.Background())
	waitSettled(t, c)
	if diff := cmp.Diff([]string{"http://frontend:3000/api/"}, doer.calls()); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRejectsInvalidEndpoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts Options
	}{
		{name: "empty", opts: Options{Endpoint: "  "}},
		{name: "relative without base", opts: Options{Endpoint: "/api/"}},
		{name: "relative base", opts: Options{Endpoint: "/api/", BaseURL: "frontend"}},
		{name: "unparseable", opts: Options{Endpoint: "http://[::1"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.opts); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestUnmountCancelsInFlightFetch(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	doer := &recordingDoer{respond: func(req *http.Request) (*http.Response, error) {
		close(started)
		<-req.Context().Done()
		return nil, req.Context().Err()
	}}
	core, logs := observer.New(zap.DebugLevel)
	c, err := New(Options{Endpoint: "http://localhost:8000", Client: doer, Logger: zap.New(core)})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	c.Mount(context.Background())
	<-started
	c.Unmount()
	<-c.Done()

	if got := c.State(); got != InitialState() {
		t.Fatalf("State() after unmount = %+v, want %+v", got, InitialState())
	}
	if _, err := c.Wait(context.Background()); !errors.Is(err, ErrUnmounted) {
		t.Fatalf("Wait() error = %v, want %v", err, ErrUnmounted)
	}
	if n := logs.FilterMessage("display fetch failed").Len(); n != 0 {
		t.Fatalf("logged %d failures for an abandoned fetch, want 0", n)
	}
}

func TestUnmountBeforeMountSkipsFetch(t *testing.T) {
	t.Parallel()

	doer := &recordingDoer{respond: jsonResponse(http.StatusOK, `{"message": "never"}`)}
	c, err := New(Options{Endpoint: "http://localhost:8000", Client: doer})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	c.Unmount()
	c.Mount(context.Background())

	if _, err := c.Wait(context.Background()); !errors.Is(err, ErrUnmounted) {
		t.Fatalf("Wait() error = %v, want %v", err, ErrUnmounted)
	}
	if n := len(doer.calls()); n != 0 {
		t.Fatalf("calls = %d, want 0", n)
	}
}

func TestWaitHonoursContext(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	defer close(release)
	doer := &recordingDoer{respond: func(req *http.Request) (*http.Response, error) {
		<-release
		return jsonResponse(http.StatusOK, `{"message": "x"}`)(req)
	}}
	c, err := New(Options{Endpoint: "http://localhost:8000", Client: doer})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	c.Mount(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	state, err := c.Wait(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Wait() error = %v, want %v", err, context.Canceled)
	}
	if state.Phase != PhaseLoading {
		t.Fatalf("Phase = %v, want %v", state.Phase, PhaseLoading)
	}
}

func TestMetricsRecordOutcomes(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	ok := &recordingDoer{respond: jsonResponse(http.StatusOK, `{"message": "hi"}`)}
	bad := &recordingDoer{respond: jsonResponse(http.StatusBadGateway, ``)}
	for _, doer := range []*recordingDoer{ok, bad, bad} {
		c, err := New(Options{Endpoint: "http://localhost:8000", Client: doer, Metrics: metrics})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		c.Mount(context.Background())
		waitSettled(t, c)
	}

	if got := testutil.ToFloat64(metrics.fetches.WithLabelValues(outcomeSuccess)); got != 1 {
		t.Fatalf("success fetches = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.fetches.WithLabelValues(outcomeError)); got != 2 {
		t.Fatalf("error fetches = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.inFlight); got != 0 {
		t.Fatalf("active mounts = %v, want 0", got)
	}
}

func TestNewMetricsRejectsDuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	if _, err := NewMetrics(reg); err != nil {
		t.Fatalf("first NewMetrics() error = %v", err)
	}
	if _, err := NewMetrics(reg); err == nil {
		t.Fatal("expected duplicate registration error")
	}
}
