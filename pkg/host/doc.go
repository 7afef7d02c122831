// Package host models the editor host surface the session subsystem depends
// on: the build version query, the packages path query, and the capability
// gate derived from them.
//
// Invariants:
// - Capability is resolved exactly once, at Gate construction.
// - Under the deferred-save capability the packages path is captured at
//   construction time, because the host withdraws the API during teardown.
package host
