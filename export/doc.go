// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package export renders grouping runs as spreadsheet-friendly CSV and delivers
the bytes to a destination.

# Format

Output starts with a UTF-8 byte order mark so spreadsheet applications pick
the right encoding for non-Latin names. The header is always

	GroupName,MemberName

followed by one line per member, in group order and then member order. Every
field is double-quoted and embedded quotes are doubled. Lines end with "\n".
A run with no groups produces the header alone.

# Sinks

A Sink stores a finished file under a name and reports where it went.
FileSink writes into a local directory; S3Sink uploads to a bucket on any
S3-compatible endpoint.
*/
package export
