// Package session holds transient and semi-persistent editing state (last
// search/substitute patterns, register names, macros, command history and
// per-document scratch values) and flushes the persistent subset to a single
// durable JSON record so it survives host restarts.
//
// Invariants:
// - Only allow-listed names are accepted from a loaded record; everything
//   else is dropped silently.
// - Digit-only string keys are promoted to integers in every decoded mapping,
//   at any depth.
// - A document's sub-store never outlives the document's close notification.
// - Load never fails host startup: missing, empty and malformed records all
//   degrade to an empty session with at most a logged diagnostic.
//
// Callers must run Load to completion before reading values that are expected
// to come from a previous session. The record file is assumed to be touched
// by one process instance at a time.
//
// Usage:
//
//	gate, _ := host.NewGate(editorHost)
//	mgr, _ := session.New(session.Config{Gate: gate, History: histStore})
//	mgr.Load()
//	pat := mgr.Get(session.KeySubstituteLastPattern, "")
//	_ = pat
package session
