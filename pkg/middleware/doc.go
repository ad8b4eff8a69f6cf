// Package middleware provides the route protection and throttling layers of
// the HTTP API.
//
// Guard evaluates the access policy for every protected route and translates
// the decision into HTTP: unauthenticated requests get 401 with the path to
// return to after signing in, authenticated requests outside the route's
// roles get 403 and a denial notification.
//
// RateLimiter throttles by client key with a token bucket; the API uses it
// to slow down credential guessing on the login endpoint.
package middleware
