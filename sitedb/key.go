package sitedb

import "strings"

// Key derives the storage key for a (site, company) pair: lower-cased, every
// non-alphanumeric run collapsed to underscores. Display casing is preserved
// by callers; only lookups and database names use the key.
func Key(site, company string) string {
	raw := strings.ToLower(site + "_" + company)
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
