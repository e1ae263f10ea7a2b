package stac

import (
	json "github.com/goccy/go-json"

	"github.com/andyballingall/stacv/internal/record"
)

// Collection describes a group of Items that share properties and an extent.
type Collection struct {
	StacVersion    string
	StacExtensions []string
	ID             string
	Title          *string
	Description    string
	Keywords       []string
	License        string
	Providers      []Provider
	Extent         Extent
	Summaries      map[string]json.RawMessage
	Links          []Link
	Assets         map[string]Asset
	// Extensions holds the prefixed extension members at the top level, such as "sci:doi".
	Extensions record.Fields
	Extra      record.Fields
}

func (c *Collection) UnmarshalJSON(b []byte) error {
	obj, err := record.Parse(b)
	if err != nil {
		return err
	}
	if c.StacVersion, c.StacExtensions, err = decodeHeader(obj, typeCollection); err != nil {
		return err
	}
	if c.ID, err = record.Require[string](obj, "id"); err != nil {
		return err
	}
	if c.Title, err = record.TakePtr[string](obj, "title"); err != nil {
		return err
	}
	if c.Description, err = record.Require[string](obj, "description"); err != nil {
		return err
	}
	if c.Keywords, _, err = record.Take[[]string](obj, "keywords"); err != nil {
		return err
	}
	if c.License, err = record.Require[string](obj, "license"); err != nil {
		return err
	}
	if c.Providers, _, err = record.Take[[]Provider](obj, "providers"); err != nil {
		return err
	}
	if c.Extent, err = record.Require[Extent](obj, "extent"); err != nil {
		return err
	}
	if c.Summaries, _, err = record.Take[map[string]json.RawMessage](obj, "summaries"); err != nil {
		return err
	}
	if c.Links, err = record.Require[[]Link](obj, "links"); err != nil {
		return err
	}
	if c.Assets, _, err = record.Take[map[string]Asset](obj, "assets"); err != nil {
		return err
	}
	c.Extensions = obj.TakeNamespaced()
	c.Extra = obj.Rest()
	return nil
}

func (c Collection) MarshalJSON() ([]byte, error) {
	w := writeHeader(typeCollection, c.StacVersion, c.StacExtensions).Set("id", c.ID)
	record.SetPtr(w, "title", c.Title)
	w.Set("description", c.Description).
		SetIf(c.Keywords != nil, "keywords", c.Keywords).
		Set("license", c.License).
		SetIf(c.Providers != nil, "providers", c.Providers).
		Set("extent", c.Extent).
		SetIf(c.Summaries != nil, "summaries", c.Summaries).
		Set("links", c.Links).
		SetIf(c.Assets != nil, "assets", c.Assets)
	return w.Merge(union(c.Extensions, c.Extra)).Bytes()
}

func (c *Collection) LinksOfRel(rel string) []Link {
	return linksOfRel(c.Links, rel)
}

func (c *Collection) FirstLinkOfRel(rel string) (Link, bool) {
	return firstLinkOfRel(c.Links, rel)
}

func (c *Collection) Scientific() (Scientific, error) {
	return decodeView[Scientific](c.Extensions)
}

func union(a, b record.Fields) record.Fields {
	if len(a) == 0 {
		return b
	}
	out := make(record.Fields, len(a)+len(b))
	for k, v := range b {
		out[k] = v
	}
	for k, v := range a {
		out[k] = v
	}
	return out
}
