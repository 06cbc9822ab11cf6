// Package hashroute maps a station pair to and from the URL fragment
// "#your-commute.<from>.<to>".
package hashroute

import (
	"strings"

	"github.com/matzehuels/yourcommute/pkg/errors"
)

// Prefix is the fragment prefix owned by the explorer.
const Prefix = "#your-commute"

// Stations reports whether a station ID is known. *network.Model satisfies it.
type Stations interface {
	Has(id string) bool
}

// Encode returns the fragment for a station pair.
func Encode(from, to string) string {
	return Prefix + "." + from + "." + to
}

// Decode parses a fragment into a known station pair. The leading "#" is
// optional. Fragments owned by other page sections, malformed fragments
// and unknown station IDs all yield ok == false, and the caller must keep
// its current view.
func Decode(fragment string, known Stations) (from, to string, ok bool) {
	from, to, err := Parse(fragment, known)
	return from, to, err == nil
}

// Parse is Decode with the reason for rejection.
func Parse(fragment string, known Stations) (from, to string, err error) {
	if !strings.HasPrefix(fragment, "#") {
		fragment = "#" + fragment
	}
	parts := strings.Split(fragment, ".")
	if len(parts) != 3 || parts[0] != Prefix {
		return "", "", errors.New(errors.ErrCodeInvalidHash, "not an explorer fragment: %q", fragment)
	}
	from, to = parts[1], parts[2]
	for _, id := range []string{from, to} {
		if !known.Has(id) {
			return "", "", errors.New(errors.ErrCodeUnknownStation, "unknown station %q", id)
		}
	}
	return from, to, nil
}
