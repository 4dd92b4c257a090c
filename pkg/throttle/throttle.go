// Package throttle serializes outbound HTTP requests through a FIFO
// queue with a minimum spacing between consecutive calls.
package throttle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrClosed is returned by Get after Close has been called.
var ErrClosed = errors.New("throttle: closed")

// StatusError is returned when the remote responds with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// request is one queued call; destroyed once settled.
type request struct {
	ctx context.Context
	url string
	out chan result
}

type result struct {
	body []byte
	err  error
}

// Throttle funnels all requests through a single drain goroutine. At
// most one request is in flight at a time, and the next request starts
// no sooner than minInterval after the previous one completed. Requests
// are dispatched in the order they were enqueued; a failing request
// rejects only its own caller and the queue keeps draining.
type Throttle struct {
	client      *http.Client
	minInterval time.Duration
	queue       chan *request
	done        chan struct{}
}

// Option configures a Throttle.
type Option func(*Throttle)

// WithClient sets the HTTP client used for dispatch.
func WithClient(client *http.Client) Option {
	return func(t *Throttle) {
		t.client = client
	}
}

// WithQueueDepth sets the buffered queue depth.
func WithQueueDepth(n int) Option {
	return func(t *Throttle) {
		t.queue = make(chan *request, n)
	}
}

// New creates a Throttle and starts its drain goroutine.
func New(minInterval time.Duration, opts ...Option) *Throttle {
	t := &Throttle{
		client:      &http.Client{Timeout: 30 * time.Second},
		minInterval: minInterval,
		queue:       make(chan *request, 64),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	go t.drain()
	return t
}

// Get enqueues a GET for url and blocks until it settles or ctx is
// done. Cancelling ctx while the request is still queued rejects it
// without a network call; once dispatched, the request runs under the
// same ctx.
func (t *Throttle) Get(ctx context.Context, url string) ([]byte, error) {
	select {
	case <-t.done:
		return nil, ErrClosed
	default:
	}

	req := &request{ctx: ctx, url: url, out: make(chan result, 1)}

	select {
	case t.queue <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-t.done:
		return nil, ErrClosed
	}

	select {
	case res := <-req.out:
		return res.body, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops the drain loop. Requests still queued are rejected with
// ErrClosed.
func (t *Throttle) Close() {
	close(t.done)
}

// drain pops one request at a time, waits out the remaining interval
// since the previous completion, and dispatches.
func (t *Throttle) drain() {
	var lastCompleted time.Time

	for {
		select {
		case <-t.done:
			t.reject()
			return
		case req := <-t.queue:
			// A caller that gave up while queued does not consume
			// interval budget.
			if req.ctx.Err() != nil {
				req.out <- result{err: req.ctx.Err()}
				continue
			}

			if wait := t.minInterval - time.Since(lastCompleted); !lastCompleted.IsZero() && wait > 0 {
				timer := time.NewTimer(wait)
				select {
				case <-timer.C:
				case <-t.done:
					timer.Stop()
					req.out <- result{err: ErrClosed}
					t.reject()
					return
				}
			}

			body, err := t.do(req.ctx, req.url)
			lastCompleted = time.Now()
			req.out <- result{body: body, err: err}
		}
	}
}

// reject fails every request still sitting in the queue.
func (t *Throttle) reject() {
	for {
		select {
		case req := <-t.queue:
			req.out <- result{err: ErrClosed}
		default:
			return
		}
	}
}

func (t *Throttle) do(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
