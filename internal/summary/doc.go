// Package summary turns the ordered list of location snapshots into a
// compact travel history.
//
// Snapshots arrive far more often than real moves. The Engine walks the
// series once, splitting it wherever two neighbouring snapshots are far
// apart, in different countries or in different timezones. Snapshots
// between two splits are held back; one of them is only promoted to its own
// stay when it was followed by more than the layover threshold (12h by
// default) of silence. Every emitted stay passes through Rules, which
// aliases labels and drops suppressed labels and excluded identifiers.
//
// The derived views (places, countries, country visits) are pure functions
// of the ascending stay list and are returned newest first.
package summary
