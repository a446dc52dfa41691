package counter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewReporterDisabledWithoutURL(t *testing.T) {
	if r := NewReporter("", time.Second, nil); r != nil {
		t.Fatal("expected nil reporter for empty url")
	}
	// Reporting on a nil reporter is a no-op.
	var r *Reporter
	r.Report(1)
}

func TestReporterPostsIncrement(t *testing.T) {
	got := make(chan reportPayload, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", req.Method)
		}
		if ct := req.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %q", ct)
		}
		var p reportPayload
		if err := json.NewDecoder(req.Body).Decode(&p); err != nil {
			t.Errorf("decode: %v", err)
		}
		got <- p
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(newMemKV(), WithReporter(NewReporter(srv.URL, time.Second, srv.Client())))
	if v := c.Bump(context.Background(), 3); v != 3 {
		t.Fatalf("Bump = %d, want 3", v)
	}

	select {
	case p := <-got:
		if p.Inc != 3 {
			t.Errorf("inc = %d, want 3", p.Inc)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("report never arrived")
	}
}

func TestReporterFailureIsSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	finished := make(chan struct{})
	r := NewReporter(srv.URL, time.Second, srv.Client())
	r.done = func() { close(finished) }

	c := New(newMemKV(), WithReporter(r))
	if v := c.Bump(context.Background(), 1); v != 1 {
		t.Fatalf("Bump = %d, want 1", v)
	}

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("report goroutine did not finish")
	}
}

func TestReporterSendErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	r := NewReporter(srv.URL, time.Second, srv.Client())
	if err := r.send(1); err == nil {
		t.Fatal("expected error for 502 response")
	}

	unreachable := NewReporter("http://127.0.0.1:1", 200*time.Millisecond, nil)
	if err := unreachable.send(1); err == nil {
		t.Fatal("expected error for unreachable endpoint")
	}
}
