// Package usage produces per-organization usage reports: a deterministic
// daily series of API calls, active users and storage, measured against the
// quota of the organization's subscription plan. Reports are cached and the
// cache is flushed at the start of each billing period.
package usage
