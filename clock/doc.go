// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package clock provides injectable time for the engines.

  - NewSystem: wall clock; Sleep uses a timer and honours context cancellation
  - NewInstant: never blocks, records requested sleeps
  - NewVirtual: sleepers park until the test calls Advance

The raffle spin and the label timeout are expressed only through this
interface, so tests never wait on real time.
*/
package clock
