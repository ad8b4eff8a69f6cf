// Package stream provides a replay-latest broadcast cell used to propagate
// state changes between otherwise independent services.
//
// A Feed holds the most recently published value. New subscribers immediately
// receive that value, and already-attached subscribers observe every
// transition in publish order.
package stream
