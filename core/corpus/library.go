package corpus

import (
	"encoding/hex"
	"io"
	"sort"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/BibleHere/core/errors"
	"github.com/FocuswithJustin/BibleHere/core/ir"
)

// Library is the set of loaded versions. Version lookup is
// case-insensitive.
type Library struct {
	stores map[string]*Store
}

// NewLibrary builds a library from stores. A later store with the same
// version abbreviation replaces an earlier one.
func NewLibrary(stores ...*Store) *Library {
	l := &Library{stores: make(map[string]*Store, len(stores))}
	for _, s := range stores {
		l.stores[strings.ToUpper(s.version.Abbrev)] = s
	}
	return l
}

// Store returns the store for version or ErrUnknownVersion.
func (l *Library) Store(version string) (*Store, error) {
	s, ok := l.stores[strings.ToUpper(strings.TrimSpace(version))]
	if !ok {
		return nil, errors.NewUnknownVersion(version)
	}
	return s, nil
}

// Stores resolves every requested version, failing on the first unknown
// one. Duplicates are dropped.
func (l *Library) Stores(versions []string) ([]*Store, error) {
	out := make([]*Store, 0, len(versions))
	seen := make(map[*Store]bool, len(versions))
	for _, v := range versions {
		s, err := l.Store(v)
		if err != nil {
			return nil, err
		}
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out, nil
}

// Versions returns metadata for every loaded version, sorted by abbreviation.
func (l *Library) Versions() []ir.Version {
	out := make([]ir.Version, 0, len(l.stores))
	for _, s := range l.stores {
		out = append(out, s.version)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Abbrev < out[j].Abbrev })
	return out
}

// Len returns the number of loaded versions.
func (l *Library) Len() int {
	return len(l.stores)
}

// Fingerprint combines the fingerprints of the given versions in order.
// It changes whenever any of their content changes, so callers can use it
// to key caches.
func Fingerprint(stores []*Store) string {
	h := blake3.New()
	for _, s := range stores {
		_, _ = io.WriteString(h, s.version.Abbrev)
		_, _ = io.WriteString(h, ":")
		_, _ = io.WriteString(h, s.fingerprint)
		_, _ = io.WriteString(h, "\n")
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
