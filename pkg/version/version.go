// Package version implements the VersionGate: parses and orders the
// `ftml_version` reserved key's value and rejects documents newer than the
// engine itself understands (spec.md §4.8).
package version

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/DarrenHaba/ftml/pkg/errors"
)

// Current is the engine's own FTML version.
const Current = "1.0"

// stage orders a Version's pre-release channel: release builds sort last.
type stage int

const (
	stageAlpha stage = iota
	stageBeta
	stageRC
	stageRelease
)

var pattern = regexp.MustCompile(`^(\d+)\.(\d+)(?:(a|b|rc)(\d+))?$`)

// Version is a parsed `ftml_version` value: MAJOR.MINOR, optionally
// followed by a pre-release channel and counter.
type Version struct {
	Major, Minor int
	Stage        stage
	Pre          int
}

// Parse parses a version string of the form "MAJOR.MINOR" or
// "MAJOR.MINOR{a|b|rc}N".
func Parse(s string) (Version, error) {
	m := pattern.FindStringSubmatch(s)
	if m == nil {
		return Version{}, fmt.Errorf("malformed version %q", s)
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	v := Version{Major: major, Minor: minor, Stage: stageRelease}
	if m[3] != "" {
		switch m[3] {
		case "a":
			v.Stage = stageAlpha
		case "b":
			v.Stage = stageBeta
		case "rc":
			v.Stage = stageRC
		}
		pre, _ := strconv.Atoi(m[4])
		v.Pre = pre
	}
	return v, nil
}

// Compare returns -1, 0, or 1 as a is older than, equal to, or newer than b.
// Release outranks rc outranks b outranks a at equal major/minor; within a
// stage, the pre-release counter breaks ties.
func Compare(a, b Version) int {
	switch {
	case a.Major != b.Major:
		return sign(a.Major - b.Major)
	case a.Minor != b.Minor:
		return sign(a.Minor - b.Minor)
	case a.Stage != b.Stage:
		return sign(int(a.Stage) - int(b.Stage))
	case a.Stage != stageRelease && a.Pre != b.Pre:
		return sign(a.Pre - b.Pre)
	default:
		return 0
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// Check validates raw (the `ftml_version` key's literal value) against the
// engine's Current version. checkVersion=false bypasses the greater-than
// rejection entirely but still rejects a malformed version string.
func Check(raw string, checkVersion bool) error {
	doc, err := Parse(raw)
	if err != nil {
		return errors.NewVersionError("%s", err.Error())
	}
	if !checkVersion {
		return nil
	}
	cur, err := Parse(Current)
	if err != nil {
		return errors.NewVersionError("%s", err.Error())
	}
	if Compare(doc, cur) > 0 {
		return errors.NewVersionError("document ftml_version %q is newer than the engine's current version %q", raw, Current)
	}
	return nil
}
