package version

// Version is the scanner engine version. Strategy configurations may pin it
// through their engine_version field. Set at build time with
// -ldflags "-X github.com/arvindk1/options-strategy-scanner/internal/version.Version=0.2.0".
// "main" marks a development build.
var Version = "v0.1.0"

// GetVersion returns the running engine version.
func GetVersion() string {
	return Version
}
