// Package idempotency guards the one-click charge flow against duplicate
// order creation and capture when a client retries the same logical charge.
package idempotency

import (
	"context"
	"time"

	gateway "github.com/vaultpay/gateway"
)

// Status represents the result of checking the store.
type Status int

const (
	// StatusNotFound means no cached result and no in-flight request.
	StatusNotFound Status = iota
	// StatusCached means a cached result was found.
	StatusCached
	// StatusInFlight means another request is currently processing this
	// charge.
	StatusInFlight
)

// Store defines the interface for one-click idempotency storage.
// Implementations must be safe for concurrent use.
//
// The interface is designed to support both in-memory and distributed
// backends (Redis, database, etc.) with the same get/put/expire contract.
type Store interface {
	// CheckAndMark atomically checks the store and marks the key as
	// in-flight if needed.
	//
	// Returns:
	//   - StatusCached + result + nil: a cached result exists, return it
	//     immediately without any network calls
	//   - StatusInFlight + nil + done: another request is processing,
	//     wait on the done channel
	//   - StatusNotFound + nil + done: this request should proceed (now
	//     marked in-flight)
	//
	// The done channel must be passed to Complete() or Fail() when the
	// operation finishes.
	CheckAndMark(key string) (Status, *gateway.OneClickResult, chan struct{})

	// WaitForResult waits for an in-flight request to complete,
	// respecting context cancellation. Returns nil if the in-flight
	// request failed (caller should retry).
	WaitForResult(ctx context.Context, key string, done chan struct{}) (*gateway.OneClickResult, error)

	// Complete caches the result under the key and signals waiters. A
	// record, once written, is returned verbatim for all reads within
	// its time-to-live.
	Complete(key string, result *gateway.OneClickResult, done chan struct{})

	// Fail removes the in-flight marker without caching, so a genuine
	// transient failure stays retryable under the same key.
	Fail(key string, done chan struct{})

	// Sweep removes entries whose time-to-live elapsed before now and
	// returns how many were evicted. Safe to run concurrently with
	// reads and writes since entries are immutable once inserted.
	Sweep(now time.Time) int
}

// KeyGenerator produces a request identifier when the caller did not supply
// one. Each generated key must be unique per logical charge.
type KeyGenerator func() string
