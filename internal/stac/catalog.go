package stac

import (
	json "github.com/goccy/go-json"

	"github.com/andyballingall/stacv/internal/record"
)

const (
	typeCatalog        = "Catalog"
	typeCollection     = "Collection"
	typeFeature        = "Feature"
	typeFeatureCollect = "FeatureCollection"
)

var wireTypes = []string{typeCatalog, typeCollection, typeFeature}

// Catalog is a navigation node that groups other STAC documents through its links.
type Catalog struct {
	StacVersion    string
	StacExtensions []string
	ID             string
	Title          *string
	Description    string
	Summaries      map[string]json.RawMessage
	Links          []Link
	Extra          record.Fields
}

func (c *Catalog) UnmarshalJSON(b []byte) error {
	obj, err := record.Parse(b)
	if err != nil {
		return err
	}
	if c.StacVersion, c.StacExtensions, err = decodeHeader(obj, typeCatalog); err != nil {
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
	if c.Summaries, _, err = record.Take[map[string]json.RawMessage](obj, "summaries"); err != nil {
		return err
	}
	if c.Links, _, err = record.Take[[]Link](obj, "links"); err != nil {
		return err
	}
	c.Extra = obj.Rest()
	return nil
}

func (c Catalog) MarshalJSON() ([]byte, error) {
	w := writeHeader(typeCatalog, c.StacVersion, c.StacExtensions).Set("id", c.ID)
	record.SetPtr(w, "title", c.Title)
	w.Set("description", c.Description).
		SetIf(c.Summaries != nil, "summaries", c.Summaries).
		SetIf(c.Links != nil, "links", c.Links)
	return w.Merge(c.Extra).Bytes()
}

func (c *Catalog) LinksOfRel(rel string) []Link {
	return linksOfRel(c.Links, rel)
}

func (c *Catalog) FirstLinkOfRel(rel string) (Link, bool) {
	return firstLinkOfRel(c.Links, rel)
}

// decodeHeader claims the members every document starts with and checks the
// discriminator.
func decodeHeader(obj *record.Object, wireType string) (string, []string, error) {
	version, err := record.Require[string](obj, "stac_version")
	if err != nil {
		return "", nil, err
	}
	if err := record.RequireLiteral(obj, "type", wireType); err != nil {
		return "", nil, err
	}
	exts, _, err := record.Take[[]string](obj, "stac_extensions")
	if err != nil {
		return "", nil, err
	}
	return version, exts, nil
}

func writeHeader(wireType, version string, exts []string) *record.Writer {
	return record.NewWriter().
		Set("type", wireType).
		Set("stac_version", version).
		SetIf(exts != nil, "stac_extensions", exts)
}
