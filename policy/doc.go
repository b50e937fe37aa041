// Copyright (c) 2025 The Fabris Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package policy decides when a voting session is open.

# Activity

	policy.IsActive(session, time.Now())

A session is active iff it is not closed, the current time falls within its
start/end bounds (absent or unparseable bounds are unbounded), and it has
at least as many positions attached as its seats requirement.

# Auto-close

	n, err := policy.AutoCloseExpired(st, time.Now())

Closes sessions whose end date has passed. Evaluation is on-demand: the
handlers run this before serving session reads and vote writes; there is no
background scheduler. Once closed, a session never reopens.
*/
package policy
