// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package session ties the roster to the raffle and grouping engines and to
// the roster store. The session value is passed explicitly to every command;
// there is no package-level state.
package session
