// Package schema manages partial and unique database indexes. The
// implementation lives under internal/, the public API under pkg/onyx.
package schema

var (
	version    = "0.3.0" // manually set semantic version number
	commitHash string    // automatically set git commit hash

	Version = func() string {
		if commitHash != "" {
			return version + "-" + commitHash
		}
		return version + "-dev"
	}()
)
