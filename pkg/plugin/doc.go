// Package plugin wires the session subsystem together for an embedding
// editor host: configuration, logging, tracing, the capability gate, the
// history store and the session manager. Bootstrap runs the required
// initialization sequence, including the initial session load, so callers
// get a ready-to-use store instead of ordering the calls themselves.
package plugin
