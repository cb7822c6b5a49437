package crates

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// namePattern matches the characters crates.io allows in crate names.
var namePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// PackageSpec identifies a crate and an optional version requirement, parsed
// from user input like "serde", "serde:^1.0" or "serde@1.0.104".
type PackageSpec struct {
	Name string

	// Req is nil when the spec carries no version requirement.
	Req     *semver.Constraints
	ReqText string

	// Exact is set when the requirement pins one exact version, which
	// makes a yanked version eligible for selection.
	Exact *semver.Version
}

// Constrained reports whether the spec carries a version requirement.
func (s *PackageSpec) Constrained() bool {
	return s.Req != nil
}

func (s *PackageSpec) String() string {
	if s.Req == nil {
		return s.Name
	}
	return s.Name + ":" + s.ReqText
}

// ParseSpec parses a raw package spec. Accepted forms are "name",
// "name:REQ" with an arbitrary semver requirement, and "name@VERSION" as
// shorthand for an exact-version requirement. Colon and at-sign are mutually
// exclusive.
func ParseSpec(raw string) (*PackageSpec, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: spec is empty", ErrInvalidSpec)
	}
	if strings.Contains(raw, ":") && strings.Contains(raw, "@") {
		return nil, fmt.Errorf("%w: %q mixes `:` and `@`, use one or the other", ErrInvalidSpec, raw)
	}

	name := raw
	reqText := ""
	exactText := ""
	if i := strings.Index(raw, ":"); i >= 0 {
		name, reqText = raw[:i], raw[i+1:]
	} else if i := strings.Index(raw, "@"); i >= 0 {
		name, exactText = raw[:i], raw[i+1:]
	}

	if name == "" {
		return nil, fmt.Errorf("%w: %q has no crate name", ErrInvalidSpec, raw)
	}
	if !namePattern.MatchString(name) {
		return nil, fmt.Errorf("%w: %q is not a valid crate name", ErrInvalidSpec, name)
	}

	spec := &PackageSpec{Name: name}
	switch {
	case exactText != "":
		v, err := semver.NewVersion(exactText)
		if err != nil {
			return nil, fmt.Errorf("%w: bad version %q: %v", ErrInvalidSpec, exactText, err)
		}
		spec.Exact = v
		spec.ReqText = "=" + exactText
	case reqText != "":
		spec.ReqText = reqText
	case strings.ContainsAny(raw, ":@"):
		// A trailing separator with nothing after it.
		return nil, fmt.Errorf("%w: %q has an empty version requirement", ErrInvalidSpec, raw)
	default:
		return spec, nil
	}

	req, err := semver.NewConstraint(spec.ReqText)
	if err != nil {
		return nil, fmt.Errorf("%w: bad requirement %q: %v", ErrInvalidSpec, spec.ReqText, err)
	}
	spec.Req = req

	// "name:=1.2.3" pins an exact version just like "name@1.2.3" does.
	if spec.Exact == nil && strings.HasPrefix(reqText, "=") {
		if v, err := semver.StrictNewVersion(strings.TrimPrefix(reqText, "=")); err == nil {
			spec.Exact = v
		}
	}

	return spec, nil
}
