// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package grouping splits a roster into randomly composed groups.

# Algorithm

 1. Fisher–Yates shuffle of a copy of the roster
 2. GroupCount = ceil(len(roster) / maxSize)
 3. Partition into consecutive chunks of maxSize, remainder last
 4. Ask the LabelGenerator for GroupCount names

# Labels

ResolveLabels fills missing or blank labels with the placeholder for their
position ("Group 3", or the locale's equivalent) and drops extras. A
generator error, panic or timeout (WithLabelTimeout, measured on the
injected clock) is logged and every group gets its placeholder; Group
itself only fails for maxSize < 1.

# Results

Each Group call produces a complete models.Run. Latest returns a copy of
the last completed run; a newer run replaces it wholesale.
*/
package grouping
