// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package commands defines the flowhub command tree.

# Commands

	flowhub import FILE [--lines]
	flowhub list [--json]
	flowhub dedupe
	flowhub clear
	flowhub draw [--count N] [--allow-repeat] [--interactive]
	flowhub group [--size K] [--theme T] [--out DIR] [--bucket B] [--no-export] [--json]

Configuration flags from package cliparse are persistent and accepted by
every command.

# Wiring

Execute builds the tree and runs it. The root's PersistentPreRunE resolves
the configuration, builds the logger, opens the database and assembles a
session with its raffle and grouping engines. Every command body is wrapped
with middleware.WithLogging.

The raffle spin is drawn on stderr so stdout carries only results.

Options replace collaborators for tests:

	err := commands.Execute(ctx, args,
		commands.WithIO(stdin, &out, &errOut),
		commands.WithRaffleClock(clock.NewInstant(start)),
		commands.WithSink(sink),
	)
*/
package commands
