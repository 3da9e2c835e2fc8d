package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

const devBuild = "main"

// CheckVersionCompatibility checks whether a strategy pinned to pinnedVersion
// can run on a scanner built as engineVersion.
//
// Rules:
//   - "main" on either side is a development build and skips the check
//   - Major and minor must match
//   - Patch may differ (a strategy pinned to 0.1.0 runs on 0.1.4)
func CheckVersionCompatibility(engineVersion, pinnedVersion string) error {
	engineVersion = normalize(engineVersion)
	pinnedVersion = normalize(pinnedVersion)

	if engineVersion == devBuild || pinnedVersion == devBuild {
		return nil
	}

	engine, err := semver.NewVersion(engineVersion)
	if err != nil {
		return fmt.Errorf("invalid engine version '%s': %w", engineVersion, err)
	}

	pinned, err := semver.NewVersion(pinnedVersion)
	if err != nil {
		return fmt.Errorf("invalid engine_version '%s': %w", pinnedVersion, err)
	}

	if engine.Major() != pinned.Major() {
		return fmt.Errorf("major version mismatch: scanner is %d.x.x but strategy pins %d.x.x",
			engine.Major(), pinned.Major())
	}

	if engine.Minor() != pinned.Minor() {
		return fmt.Errorf("minor version mismatch: scanner is %d.%d.x but strategy pins %d.%d.x",
			engine.Major(), engine.Minor(), pinned.Major(), pinned.Minor())
	}

	return nil
}

// CheckPinned checks pinnedVersion against the running scanner version.
func CheckPinned(pinnedVersion string) error {
	return CheckVersionCompatibility(GetVersion(), pinnedVersion)
}

func normalize(v string) string {
	return strings.TrimPrefix(strings.TrimSpace(v), "v")
}
