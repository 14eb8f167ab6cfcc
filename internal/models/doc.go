// Package models defines the core domain models for SquadStats.
//
// # Models
//
//   - Profile: the local user's identity, one per installation
//   - User: a Profile snapshot stored inside a group
//   - Group: a shared squad keyed by its invite code
//   - Counter: a named tally owned by a group
//   - LogEntry: a single +1 on a counter attributed to a user
//
// Relationships use ID strings instead of pointers. Groups are persisted as
// whole JSON documents, so every field carries a json tag that fixes the
// stored layout.
//
// Timestamps are Unix milliseconds.
package models
