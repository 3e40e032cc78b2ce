// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package labels generates creative group names with Gemini.

	gen, err := labels.NewGemini(ctx, apiKey, "", printer, logger)
	names, err := gen.GenerateLabels(ctx, 3, "mythology")

The model is asked for JSON matching {"names": [string]}. Errors cover the
missing key, transport failures and malformed payloads; the grouping engine
turns any of them into placeholder labels.
*/
package labels
