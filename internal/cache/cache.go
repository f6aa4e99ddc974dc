// Package cache provides the compute-on-miss key/value stores the
// dispatcher runs provider calls through.
//
// The contract every Store implementation honors:
//
//   - Get invokes compute at most once per distinct key within the
//     store's consistency scope. Concurrent callers asking for the same
//     key collapse into a single compute call (single-flight) and all
//     observe the same value.
//   - A key that was computed once is answered from the store forever
//     after (subject to the backend's TTL), with cached=true.
//   - A failed compute stores nothing — errors are never cached.
//
// Keys are opaque strings; callers are responsible for making them
// canonical (same request ⇒ same string, different request ⇒ different
// string). Values are opaque byte slices, typically marshaled JSON.
package cache

// Store is the compute-on-miss key/value contract. Implementations
// must be safe for concurrent use.
type Store interface {
	// Get returns the value stored at key. On a miss it calls compute,
	// stores the result, and returns it with cached=false. On a hit it
	// returns the stored value with cached=true and never calls compute.
	Get(key string, compute func() ([]byte, error)) (value []byte, cached bool, err error)
}
