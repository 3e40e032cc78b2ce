// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package shuffle holds the selection primitives shared by the raffle and
grouping engines.

All randomness flows through the Source interface so callers can inject a
seeded generator (New, FromSeed) or a scripted Sequence in tests:

	src := shuffle.New(42)
	perm := shuffle.Shuffle(src, roster)
	idx := shuffle.Pick(src, len(pool))

Sources are non-cryptographic. NewSeed uses crypto/rand only to pick a seed.
*/
package shuffle
