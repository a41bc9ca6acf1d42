// Package models defines the core domain records for the tanda backend.
//
// A tanda (rotating savings group) is a fixed-size circle of members.
// Every cycle each member pays the same fixed contribution into a shared
// pot, and the whole pot is paid out to the member holding that cycle's
// turn. Over a full rotation every member receives exactly one payout.
//
// The records here map onto independently keyed collections:
//   - Group: the circle itself, keyed by group id
//   - Cycle: the per-round ledger entries, stored as an ordered list per group
//   - Member: the per-account index of groups created and joined
//   - Contribution: the append-only payment history, per group per account
//   - Transfer: executed payouts, kept for audit
//   - Account: a login identity able to act as a member
//
// # Design Principles
//
// 1. **Integer money**: amounts are opaque integer contract units; a
// contribution must match the group's amount exactly, so there is no
// fractional arithmetic anywhere.
//
// 2. **String dates**: dates are "YYYY-MM-DD HH:MM:SS UTC" stamps; all
// date arithmetic lives in the scheduler package.
//
// 3. **Avoid circular references**: records reference each other by id
// strings, never by pointer, so a record round-trips through storage
// without fixups.
package models
