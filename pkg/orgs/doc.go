// Package orgs manages the organization directory: the tenants the console
// administers. Data lives in memory behind simulated request latency; every
// mutation is broadcast on a replay-latest feed so dependent services (users,
// features) stay in sync without direct cross-service calls.
package orgs
