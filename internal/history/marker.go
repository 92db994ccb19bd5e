package history

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hashicorp/go-version"
)

var versionAddedRe = regexp.MustCompile(`versionadded::\s+([0-9.]+)`)

// VersionAdded returns the version declared by the first versionadded
// marker in doc. It reports false when there is no parsable marker.
func VersionAdded(doc string) (*version.Version, bool) {
	m := versionAddedRe.FindStringSubmatch(doc)
	if m == nil {
		return nil, false
	}

	raw := strings.TrimRight(m[1], ".")
	if raw == "" {
		return nil, false
	}
	v, err := version.NewVersion(raw)
	if err != nil {
		return nil, false
	}
	return v, true
}

// Label formats v as major.minor plus any non-zero trailing segments,
// so 9.2 and 9.2.0 both read "9.2".
func Label(v *version.Version) string {
	segs := v.Segments()
	for len(segs) > 2 && segs[len(segs)-1] == 0 {
		segs = segs[:len(segs)-1]
	}
	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, ".")
}
