// Package version carries build metadata, overridable via -ldflags.
package version

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func String() string {
	return Version + " (" + Commit + ", " + BuildDate + ")"
}
