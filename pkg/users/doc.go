// Package users manages the member directory across organizations. It
// enforces per-organization email uniqueness and the FREE plan seat limit,
// and follows the organization feed so that suspending an organization
// suspends its members.
package users
