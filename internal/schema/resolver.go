package schema

import (
	"slices"

	"github.com/andyballingall/stacv/internal/stac"
)

// Location identifies one schema that a document must satisfy.
type Location struct {
	URI string
	// Extension is the stac_extensions entry the location came from. It is empty for the
	// core schema.
	Extension string
}

func (l Location) IsCore() bool {
	return l.Extension == ""
}

// SkipReason says why a declared extension produced no schema location.
type SkipReason string

const (
	// SkipUnknownExtension is a short ID that has no known schema.
	SkipUnknownExtension SkipReason = "unknown-extension"
	// SkipNotApplicable is a known short ID whose extension does not describe this kind
	// of document.
	SkipNotApplicable SkipReason = "not-applicable"
)

type SkippedExtension struct {
	Extension string
	Reason    SkipReason
}

// Resolution is the full outcome of resolving a document's schemas.
type Resolution struct {
	Policy    Policy
	Locations []Location
	Skipped   []SkippedExtension
}

// URIs returns the schema URIs in resolution order.
func (r Resolution) URIs() []string {
	out := make([]string, len(r.Locations))
	for i, l := range r.Locations {
		out[i] = l.URI
	}
	return out
}

// Resolver works out which published schemas apply to a document. The zero value is
// ready to use.
type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve returns the schema locations for meta. The core schema is always first,
// followed by one location per usable stac_extensions entry in declaration order.
// Duplicate entries are kept.
func (r *Resolver) Resolve(meta stac.Meta) ([]Location, error) {
	res, err := r.Explain(meta)
	if err != nil {
		return nil, err
	}
	return res.Locations, nil
}

// Explain is Resolve, also reporting the declared extensions that were left out.
func (r *Resolver) Explain(meta stac.Meta) (Resolution, error) {
	kind := meta.DeclaredType()
	core, ok := corePaths[kind]
	if !ok {
		return Resolution{}, &UnknownKindError{Kind: kind}
	}
	v, err := ParseVersion(meta.StacVersion())
	if err != nil {
		return Resolution{}, err
	}

	policy := PolicyFor(v)
	res := Resolution{
		Policy:    policy,
		Locations: []Location{{URI: policy.Root + "/" + core}},
	}

	for _, ext := range meta.DeclaredExtensions() {
		if policy.Addressing == AddressingURI {
			res.Locations = append(res.Locations, Location{URI: ext, Extension: ext})
			continue
		}
		known, ok := shortExtensions[ext]
		switch {
		case !ok:
			res.Skipped = append(res.Skipped, SkippedExtension{Extension: ext, Reason: SkipUnknownExtension})
		case !slices.Contains(known.appliesTo, kind):
			res.Skipped = append(res.Skipped, SkippedExtension{Extension: ext, Reason: SkipNotApplicable})
		default:
			res.Locations = append(res.Locations, Location{URI: policy.Root + "/" + known.path, Extension: ext})
		}
	}
	return res, nil
}

// ResolveLocations returns the schema URIs that meta must satisfy, in order.
func ResolveLocations(meta stac.Meta) ([]string, error) {
	res, err := NewResolver().Explain(meta)
	if err != nil {
		return nil, err
	}
	return res.URIs(), nil
}
