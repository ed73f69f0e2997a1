package game

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName canonicalizes a field name for use as a lookup key.
//
// Norwegian field names (Åsgard, Snøhvit, Ærfugl) arrive in both composed
// and decomposed Unicode forms depending on the data source; NFC
// normalization plus whitespace trimming makes the key stable across the
// dataset, saved blobs and CLI input.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
