package stac

import (
	"github.com/andyballingall/stacv/internal/record"
)

// ItemCollection is a GeoJSON FeatureCollection of Items, as returned by search APIs.
type ItemCollection struct {
	StacVersion    *string
	StacExtensions []string
	Features       []Item
	Links          []Link
	Extra          record.Fields
}

func (c *ItemCollection) UnmarshalJSON(b []byte) error {
	obj, err := record.Parse(b)
	if err != nil {
		return err
	}
	if err = record.RequireLiteral(obj, "type", typeFeatureCollect); err != nil {
		return err
	}
	if c.StacVersion, err = record.TakePtr[string](obj, "stac_version"); err != nil {
		return err
	}
	if c.StacExtensions, _, err = record.Take[[]string](obj, "stac_extensions"); err != nil {
		return err
	}
	if c.Features, err = record.Require[[]Item](obj, "features"); err != nil {
		return err
	}
	if c.Links, _, err = record.Take[[]Link](obj, "links"); err != nil {
		return err
	}
	c.Extra = obj.Rest()
	return nil
}

func (c ItemCollection) MarshalJSON() ([]byte, error) {
	w := record.NewWriter().Set("type", typeFeatureCollect)
	record.SetPtr(w, "stac_version", c.StacVersion)
	return w.SetIf(c.StacExtensions != nil, "stac_extensions", c.StacExtensions).
		Set("features", c.Features).
		SetIf(c.Links != nil, "links", c.Links).
		Merge(c.Extra).
		Bytes()
}

// DecodeItemCollection decodes a FeatureCollection document.
func DecodeItemCollection(b []byte) (*ItemCollection, error) {
	var c ItemCollection
	if err := c.UnmarshalJSON(b); err != nil {
		return nil, &DecodeError{Type: typeFeatureCollect, Err: err}
	}
	return &c, nil
}
