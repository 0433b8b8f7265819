package consumer

import "time"

// SetRetryDelays shortens the backoff for tests and returns a restore func.
func SetRetryDelays(fetch, base, maxDelay time.Duration) func() {
	prevFetch, prevBase, prevMax := fetchRetryDelay, calculateBaseDelay, calculateMaxDelay
	fetchRetryDelay, calculateBaseDelay, calculateMaxDelay = fetch, base, maxDelay
	return func() {
		fetchRetryDelay, calculateBaseDelay, calculateMaxDelay = prevFetch, prevBase, prevMax
	}
}
