package sitedb

import "testing"

func TestKey(t *testing.T) {
	cases := []struct {
		site, company string
		want          string
	}{
		{"SiteA", "ACME", "sitea_acme"},
		{"Site A", "ACME Corp", "site_a_acme_corp"},
		{"Site A", "ACME & Co.", "site_a_acme___co_"},
		{"north-7", "build.co", "north_7_build_co"},
		{"", "", "_"},
	}
	for _, tc := range cases {
		if got := Key(tc.site, tc.company); got != tc.want {
			t.Errorf("Key(%q, %q) = %q, want %q", tc.site, tc.company, got, tc.want)
		}
	}
}

func TestKeyCasingAndPunctuationCollapse(t *testing.T) {
	// Pairs that differ only in casing or separator style must map to the
	// same logical database.
	a := Key("Site-A", "ACME")
	b := Key("site a", "acme")
	if a != b {
		t.Fatalf("expected identical keys, got %q and %q", a, b)
	}
}
