// Package utils provides small conversion helpers shared by the feed decoder and
// the reconciliation engine: lenient-input integer parsing with explicit errors,
// whitespace normalisation of text nodes and first-non-blank identity selection.
package utils
