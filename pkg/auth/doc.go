// Package auth owns the signed-in principal: who is logged in, their role and
// home organization, durable session continuity across restarts, and the
// replay-latest principal feed every other service reads.
//
// The Session service is the sole writer of the current principal. Expected
// conditions (no session, bad credentials) are returned as values, never
// panics; storage corruption is downgraded to a logged-out start.
package auth
