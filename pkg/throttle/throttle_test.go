package throttle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestThrottle_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "hello")
	}))
	defer srv.Close()

	th := New(0)
	defer th.Close()

	body, err := th.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(body) != "hello" {
		t.Errorf("body = %q, want %q", body, "hello")
	}
}

func TestThrottle_MinimumSpacing(t *testing.T) {
	var mu sync.Mutex
	var starts []time.Time

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		starts = append(starts, time.Now())
		mu.Unlock()
	}))
	defer srv.Close()

	const interval = 50 * time.Millisecond
	th := New(interval)
	defer th.Close()

	ctx := context.Background()
	var ends []time.Time
	for i := 0; i < 3; i++ {
		if _, err := th.Get(ctx, srv.URL); err != nil {
			t.Fatalf("Get() #%d error = %v", i, err)
		}
		ends = append(ends, time.Now())
	}

	mu.Lock()
	defer mu.Unlock()
	if len(starts) != 3 {
		t.Fatalf("server saw %d requests, want 3", len(starts))
	}
	// Completion-to-start spacing, with a little scheduler slack.
	const slack = 5 * time.Millisecond
	for i := 1; i < 3; i++ {
		gap := starts[i].Sub(ends[i-1])
		if gap < interval-slack {
			t.Errorf("request %d started %v after previous completed, want >= %v", i, gap, interval)
		}
	}
}

func TestThrottle_FIFOOrder(t *testing.T) {
	var mu sync.Mutex
	var order []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		order = append(order, r.URL.Path)
		mu.Unlock()
	}))
	defer srv.Close()

	th := New(time.Millisecond)
	defer th.Close()

	var wg sync.WaitGroup
	done := make(chan struct{})
	// Enqueue in a known order; hold dispatch behind the first request
	// by enqueueing sequentially from one goroutine.
	go func() {
		defer close(done)
		for i := 0; i < 5; i++ {
			wg.Add(1)
			path := fmt.Sprintf("/%d", i)
			go func() {
				defer wg.Done()
				_, _ = th.Get(context.Background(), srv.URL+path)
			}()
			time.Sleep(10 * time.Millisecond) // enqueue strictly in order
		}
		wg.Wait()
	}()
	<-done

	mu.Lock()
	defer mu.Unlock()
	for i, p := range order {
		want := fmt.Sprintf("/%d", i)
		if p != want {
			t.Fatalf("dispatch order[%d] = %q, want %q (full order %v)", i, p, want, order)
		}
	}
}

func TestThrottle_FailureDoesNotPoisonQueue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			http.Error(w, "nope", http.StatusNotFound)
			return
		}
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	th := New(0)
	defer th.Close()

	ctx := context.Background()

	_, err := th.Get(ctx, srv.URL+"/bad")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Get(/bad) error = %v, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", statusErr.StatusCode)
	}

	body, err := th.Get(ctx, srv.URL+"/good")
	if err != nil {
		t.Fatalf("Get(/good) after failure error = %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("body = %q, want %q", body, "ok")
	}
}

func TestThrottle_CancelledWhileQueued(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	th := New(0)
	defer th.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := th.Get(ctx, srv.URL)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Get() with cancelled ctx = %v, want context.Canceled", err)
	}
}

func TestThrottle_Close(t *testing.T) {
	th := New(0)
	th.Close()

	_, err := th.Get(context.Background(), "http://127.0.0.1:0/unreachable")
	if !errors.Is(err, ErrClosed) {
		t.Errorf("Get() after Close = %v, want ErrClosed", err)
	}
}
