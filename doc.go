// Package authkit provides the session core of the rezume job platform: a
// reducer-driven state machine, an in-memory identity directory, a single
// persisted session slot, and the three simulated authentication flows
// (password login, signup, provider login).
//
// State machine:
//   - State is the canonical {User, IsAuthenticated, IsLoading, Error}
//     snapshot. Reduce is pure and total over the five Action types; all I/O
//     lives in the flows that dispatch into it.
//
// Flows:
//   - Authenticator runs Login, Signup, and LoginWithProvider. Each dispatches
//     AUTH_START, waits a fixed simulated latency, then resolves with
//     AUTH_SUCCESS or AUTH_ERROR. Failures land both in State.Error and in the
//     returned error. The password check is a length policy and provider
//     identities are synthesized fresh on every call: this package simulates a
//     backend, it does not verify real credentials.
//
// Manager:
//   - Manager wires directory, store, and flows into the one handle consumers
//     hold. It restores the persisted session at construction (without a
//     loading phase), serializes flows, and notifies subscribers after every
//     transition. Use WithManager/MustManager to carry it through a context.
//
// The HTTP controller and token service expose the same contract over fiber
// with a signed session cookie, and BunDirectory offers a sqlite-backed
// directory for hosts that want signups to survive restarts.
package authkit
