// Package history stores command history in an integer-indexed store that
// the session loader repopulates wholesale at startup. Indexes are monotonic
// within a process; ReplaceAll resumes numbering after the highest loaded
// index.
package history
