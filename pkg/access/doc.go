// Package access implements the role-gating decision used by route guards.
//
// CanActivate is pure and total: it never touches session or scope state and
// is defined for every input combination. Side effects (redirects, denial
// toasts) belong to the routing layer that consumes the returned Decision.
package access
