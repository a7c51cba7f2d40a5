// Package imageset converts the list of image filenames attached to an announcement
// to and from its persisted string form.
//
// Two stored shapes exist: a JSON array of filenames (current) and a bare filename
// written before listings could carry several photos. Both decode to []string.
package imageset

import (
	"encoding/json"
	"strings"
)

// MaxImages is the upper bound on photos per announcement.
const MaxImages = 5

// Kind tags the stored representation a raw value was read from.
type Kind int

const (
	Empty Kind = iota
	JSONArray
	LegacyScalar
)

// Raw is a stored value classified by shape. It never leaves this package's API
// without being collapsed through Names.
type Raw struct {
	Kind  Kind
	names []string
}

// Names returns the decoded filenames.
func (r Raw) Names() []string {
	if r.names == nil {
		return []string{}
	}
	return r.names
}

// Parse classifies a stored value. Malformed JSON is treated as a legacy single filename.
func Parse(raw string) Raw {
	if strings.TrimSpace(raw) == "" {
		return Raw{Kind: Empty}
	}
	var arr []string
	if err := json.Unmarshal([]byte(raw), &arr); err == nil {
		names := make([]string, 0, len(arr))
		for _, n := range arr {
			names = append(names, strings.TrimSpace(n))
		}
		return Raw{Kind: JSONArray, names: names}
	}
	return Raw{Kind: LegacyScalar, names: []string{strings.TrimSpace(raw)}}
}

// Decode returns the filenames held by a nullable column value.
func Decode(raw *string) []string {
	if raw == nil {
		return []string{}
	}
	return DecodeString(*raw)
}

func DecodeString(raw string) []string {
	return Parse(raw).Names()
}

// Encode renders filenames as a JSON array, trimming each entry. An empty or nil
// slice yields "[]".
func Encode(names []string) string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, strings.TrimSpace(n))
	}
	b, err := json.Marshal(out)
	if err != nil {
		// []string always marshals
		return "[]"
	}
	return string(b)
}

// Normalize rewrites a stored value into the canonical encoding. The second result
// reports whether the value changed.
func Normalize(raw string) (string, bool) {
	enc := Encode(DecodeString(raw))
	return enc, enc != raw
}
