// Package versions parses and compares the version strings the scaffolder
// deals with: the optional dependency selector given on the command line, the
// version npm records in package.json, and tool versions reported by doctor.
package versions

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Kind classifies a dependency version selector.
type Kind int

const (
	// Latest means no selector was given; npm resolves the latest release.
	Latest Kind = iota
	// Exact is a single semantic version, e.g. "13.6.0".
	Exact
	// Range is a semver constraint, e.g. "^13" or ">=12 <14".
	Range
	// Tag is an npm dist-tag, e.g. "beta".
	Tag
)

func (k Kind) String() string {
	switch k {
	case Latest:
		return "latest"
	case Exact:
		return "exact"
	case Range:
		return "range"
	case Tag:
		return "tag"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Selector is a parsed dependency version selector. Raw is passed to the
// package manager verbatim.
type Selector struct {
	Raw     string
	Kind    Kind
	version *semver.Version
}

var (
	distTagPattern = regexp.MustCompile(`^[a-z][a-z0-9._-]*$`)
	versionInText  = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)
)

// ParseSelector classifies raw. An empty string is the Latest selector.
func ParseSelector(raw string) (Selector, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Selector{Kind: Latest}, nil
	}
	if v, err := semver.StrictNewVersion(strings.TrimPrefix(raw, "v")); err == nil {
		return Selector{Raw: raw, Kind: Exact, version: v}, nil
	}
	if distTagPattern.MatchString(raw) {
		return Selector{Raw: raw, Kind: Tag}, nil
	}
	if _, err := semver.NewConstraint(raw); err == nil {
		return Selector{Raw: raw, Kind: Range}, nil
	}
	return Selector{}, fmt.Errorf("invalid version %q: expected a semantic version, range, or dist-tag", raw)
}

// Pinned reports whether the selector names a single exact version.
func (s Selector) Pinned() bool {
	return s.Kind == Exact
}

// Version returns the exact version for Exact selectors, or "".
func (s Selector) Version() string {
	if s.version == nil {
		return ""
	}
	return s.version.String()
}

// Matches reports whether the version recorded in a manifest satisfies the
// selector. npm records exact and default installs as a single version,
// possibly with a "^" or "~" operator, and an explicit range exactly as
// typed. Latest and Tag selectors match anything parsable.
func (s Selector) Matches(recorded string) (bool, error) {
	if s.Kind == Range && sameRange(recorded, s.Raw) {
		return true, nil
	}
	rv, err := parseRecorded(recorded)
	if err != nil {
		if _, cerr := semver.NewConstraint(strings.TrimSpace(recorded)); cerr != nil {
			return false, fmt.Errorf("parsing recorded version %q: %w", recorded, err)
		}
		// A range other than the requested one cannot be shown to satisfy
		// an exact pin or a different range.
		return s.Kind == Latest || s.Kind == Tag, nil
	}
	switch s.Kind {
	case Exact:
		return rv.Equal(s.version), nil
	case Range:
		c, err := semver.NewConstraint(s.Raw)
		if err != nil {
			return false, fmt.Errorf("parsing constraint %q: %w", s.Raw, err)
		}
		return c.Check(rv), nil
	default:
		return true, nil
	}
}

// sameRange compares two range expressions ignoring whitespace differences.
func sameRange(a, b string) bool {
	return strings.Join(strings.Fields(a), " ") == strings.Join(strings.Fields(b), " ")
}

// CompareVersions compares two version strings using semver.
// Returns -1 if current < latest, 0 if equal, 1 if current > latest.
// Handles "v" prefix tolerance (strips leading "v" before parsing).
func CompareVersions(current, latest string) (int, error) {
	cv, err := parseSemver(current)
	if err != nil {
		return 0, fmt.Errorf("parsing current version %q: %w", current, err)
	}
	lv, err := parseSemver(latest)
	if err != nil {
		return 0, fmt.Errorf("parsing latest version %q: %w", latest, err)
	}
	return cv.Compare(lv), nil
}

// AtLeast returns true if have >= min.
func AtLeast(have, min string) (bool, error) {
	cmp, err := CompareVersions(have, min)
	if err != nil {
		return false, err
	}
	return cmp >= 0, nil
}

// Extract pulls the first dotted version out of tool output such as
// "git version 2.43.0" or "v20.11.1".
func Extract(output string) (string, bool) {
	v := versionInText.FindString(output)
	return v, v != ""
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(version, "v")
	return semver.NewVersion(version)
}

// parseRecorded strips npm range operators from a single-version entry.
func parseRecorded(recorded string) (*semver.Version, error) {
	recorded = strings.TrimSpace(recorded)
	recorded = strings.TrimLeft(recorded, "^~=")
	return parseSemver(recorded)
}
