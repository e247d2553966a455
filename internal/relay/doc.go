// Package relay turns a provider's callback-style response into a
// channel-based fragment stream with cooperative cancellation.
package relay
