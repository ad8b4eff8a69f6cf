// Package notify implements the user-facing toast notification hub.
//
// Services emit fire-and-forget notifications through the Notifier interface;
// the hub owns display lifecycle (IDs, auto-expiry) and exposes the active
// toasts as a replay-latest feed for the UI layer.
package notify
