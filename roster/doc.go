// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package roster builds, validates, inspects and imports participant lists.

# Construction

	names, err := roster.ParseDelimited(file)
	participants := roster.New(names, nil) // uuid ids

Validate enforces unique, non-empty ids. Names may repeat.

# Duplicate Detection

NameCounts is a pure view over the roster; a name is a duplicate when its
count is greater than one. Dedupe keeps the first entry for each name.

# Import

  - ParseDelimited: CSV-aware, first field is the name, BOM stripped,
    leading "name"/"姓名" header dropped, empty names dropped
  - ParseLines: one trimmed name per line, blank lines dropped
*/
package roster
