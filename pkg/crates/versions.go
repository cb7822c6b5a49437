package crates

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// SelectVersion picks the version of a crate to retrieve. Yanked versions
// are never eligible unless the spec pins that exact version; pre-release
// versions are only eligible when the spec carries a requirement. Among the
// eligible versions the highest by semver ordering wins.
func SelectVersion(versions []VersionInfo, spec *PackageSpec) (VersionInfo, error) {
	if len(versions) == 0 {
		return VersionInfo{}, fmt.Errorf("%w: crate %q", ErrNoVersions, spec.Name)
	}

	if spec.Exact != nil {
		// An exact pin may name a yanked version deliberately.
		for _, v := range versions {
			if v.Version.Equal(spec.Exact) {
				return v, nil
			}
		}
		return VersionInfo{}, fmt.Errorf("%w: crate %q has no version %s", ErrNoMatchingVersion, spec.Name, spec.Exact)
	}

	eligible := lo.Filter(versions, func(v VersionInfo, _ int) bool {
		if v.Yanked {
			return false
		}
		if spec.Req != nil {
			return spec.Req.Check(v.Version)
		}
		// A bare spec never selects a pre-release.
		return v.Version.Prerelease() == ""
	})
	if len(eligible) == 0 {
		if spec.Req != nil {
			return VersionInfo{}, fmt.Errorf("%w: no version of %q satisfies %q", ErrNoMatchingVersion, spec.Name, spec.ReqText)
		}
		return VersionInfo{}, fmt.Errorf("%w: every version of %q is yanked or pre-release", ErrNoMatchingVersion, spec.Name)
	}

	sort.Slice(eligible, func(i, j int) bool {
		return eligible[i].Version.LessThan(eligible[j].Version)
	})
	return eligible[len(eligible)-1], nil
}
