package buildinfo

import "testing"

func TestShort(t *testing.T) {
	defer func(v, c string) { Version, Commit = v, c }(Version, Commit)

	for _, tc := range []struct{ version, commit, want string }{
		{"dev", "unknown", "dev"},
		{"dev", "abc123", "abc123"},
		{"v1.2.0", "abc123", "v1.2.0"},
		{"", "", "dev"},
	} {
		Version, Commit = tc.version, tc.commit
		if got := Short(); got != tc.want {
			t.Fatalf("Short() with %q/%q = %q, want %q", tc.version, tc.commit, got, tc.want)
		}
	}
}
