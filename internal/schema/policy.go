package schema

import (
	"strings"

	"golang.org/x/mod/semver"

	"github.com/andyballingall/stacv/internal/stac"
)

// Version is a parsed stac_version. Versions are ordered by SemVer precedence, so a
// pre-release sorts before the release it precedes and build metadata is ignored.
type Version struct {
	raw   string
	canon string
}

// ParseVersion accepts MAJOR.MINOR.PATCH with optional -PRERELEASE and +BUILD parts.
// Abbreviated forms such as "1.0" and a leading "v" are rejected.
func ParseVersion(s string) (Version, error) {
	v := "v" + s
	if strings.HasPrefix(s, "v") || !semver.IsValid(v) {
		return Version{}, &VersionParseError{Version: s}
	}
	core, _, _ := strings.Cut(v, "+")
	if semver.Canonical(v) != core {
		return Version{}, &VersionParseError{Version: s}
	}
	return Version{raw: s, canon: v}, nil
}

func mustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) String() string {
	return v.raw
}

// Compare returns -1, 0 or +1 as v sorts before, with or after other.
func (v Version) Compare(other Version) int {
	return semver.Compare(v.canon, other.canon)
}

func (v Version) AtLeast(other Version) bool {
	return v.Compare(other) >= 0
}

// Addressing is how the entries of stac_extensions identify their schemas.
type Addressing int

const (
	// AddressingShortID entries are names such as "eo", mapped to a path under the schema root.
	AddressingShortID Addressing = iota + 1
	// AddressingURI entries are complete schema URIs.
	AddressingURI
)

func (a Addressing) String() string {
	switch a {
	case AddressingShortID:
		return "short-id"
	case AddressingURI:
		return "uri"
	}
	return "unknown"
}

// Policy is the set of conventions that apply to documents of one stac_version.
type Policy struct {
	Version    Version
	Root       string
	Addressing Addressing
}

const (
	stacspecRoot = "https://schemas.stacspec.org"
	githubRoot   = "https://raw.githubusercontent.com/radiantearth/stac-spec"
)

// Each table is checked top to bottom and the first row whose minimum the version meets
// wins. The last row has no minimum. New conventions are added as new rows.
var (
	rootTable = []struct {
		since *Version
		base  string
	}{
		{since: ptrTo(mustParseVersion("1.0.0-beta.1")), base: stacspecRoot},
		{since: nil, base: githubRoot},
	}

	addressingTable = []struct {
		since      *Version
		addressing Addressing
	}{
		{since: ptrTo(mustParseVersion("1.0.0-rc.2")), addressing: AddressingURI},
		{since: nil, addressing: AddressingShortID},
	}
)

func ptrTo[T any](v T) *T {
	return &v
}

// PolicyFor returns the conventions for documents declaring version v.
func PolicyFor(v Version) Policy {
	p := Policy{Version: v}
	for _, row := range rootTable {
		if row.since == nil || v.AtLeast(*row.since) {
			p.Root = row.base + "/v" + v.String()
			break
		}
	}
	for _, row := range addressingTable {
		if row.since == nil || v.AtLeast(*row.since) {
			p.Addressing = row.addressing
			break
		}
	}
	return p
}

// SchemaRoot returns the base URL that core and short-ID extension paths are joined to.
func SchemaRoot(v Version) string {
	return PolicyFor(v).Root
}

// corePaths maps each document kind to its core schema, relative to the schema root.
var corePaths = map[stac.Kind]string{
	stac.KindCatalog:    "catalog-spec/json-schema/catalog.json",
	stac.KindCollection: "collection-spec/json-schema/collection.json",
	stac.KindItem:       "item-spec/json-schema/item.json",
}

type shortExtension struct {
	path      string
	appliesTo []stac.Kind
}

// shortExtensions lists the extensions that can be named by short ID, and the kinds of
// document each one can describe.
var shortExtensions = map[string]shortExtension{
	"eo": {
		path:      "extensions/eo/json-schema/schema.json",
		appliesTo: []stac.Kind{stac.KindItem},
	},
	"projection": {
		path:      "extensions/projection/json-schema/schema.json",
		appliesTo: []stac.Kind{stac.KindItem},
	},
	"scientific": {
		path:      "extensions/scientific/json-schema/schema.json",
		appliesTo: []stac.Kind{stac.KindItem, stac.KindCollection},
	},
	"view": {
		path:      "extensions/view/json-schema/schema.json",
		appliesTo: []stac.Kind{stac.KindItem},
	},
}
