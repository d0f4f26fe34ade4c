// Package buildinfo carries the release stamp, set with
//
//	-ldflags "-X inkdash/internal/buildinfo.Version=v1.2.0 -X inkdash/internal/buildinfo.Commit=abc123"
package buildinfo

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short is the version, or the commit for untagged builds.
func Short() string {
	switch {
	case Version != "" && Version != "dev":
		return Version
	case Commit != "" && Commit != "unknown":
		return Commit
	}
	return "dev"
}

// Long adds the commit and build date to Short.
func Long() string {
	return Short() + " (commit " + Commit + ", built " + Date + ")"
}
