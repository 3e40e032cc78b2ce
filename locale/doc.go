// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package locale loads the embedded message catalogs (locales/*.yaml) into
golang.org/x/text/message.

	p := locale.Default().Printer("zh-TW")
	p.GroupPlaceholder(2) // "小組 2"

Unsupported locales fall back to BaseLocale (en-US). Every catalog must
define the same keys as the base catalog; loading fails otherwise.
*/
package locale
