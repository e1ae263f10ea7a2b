package stac

import (
	json "github.com/goccy/go-json"

	"github.com/andyballingall/stacv/internal/record"
)

// Item is a GeoJSON Feature describing one spatiotemporal asset.
type Item struct {
	StacVersion    string
	StacExtensions []string
	ID             string
	// Geometry is the GeoJSON geometry exactly as decoded. It is the literal null for
	// Items without a location.
	Geometry   json.RawMessage
	BBox       []float64
	Properties Properties
	Links      []Link
	Assets     map[string]Asset
	Collection *string
	Extra      record.Fields
}

// Properties is the "properties" object of an Item.
type Properties struct {
	CommonMetadata
	Extensions record.Fields
	Extra      record.Fields
}

func (i *Item) UnmarshalJSON(b []byte) error {
	obj, err := record.Parse(b)
	if err != nil {
		return err
	}
	if i.StacVersion, i.StacExtensions, err = decodeHeader(obj, typeFeature); err != nil {
		return err
	}
	if i.ID, err = record.Require[string](obj, "id"); err != nil {
		return err
	}
	geometry, ok := obj.TakeRaw("geometry")
	if !ok {
		return &record.MissingFieldError{Path: "geometry"}
	}
	i.Geometry = geometry
	if i.BBox, _, err = record.Take[[]float64](obj, "bbox"); err != nil {
		return err
	}
	if i.Properties, err = record.Require[Properties](obj, "properties"); err != nil {
		return err
	}
	if i.Links, err = record.Require[[]Link](obj, "links"); err != nil {
		return err
	}
	if i.Assets, err = record.Require[map[string]Asset](obj, "assets"); err != nil {
		return err
	}
	if i.Collection, err = record.TakePtr[string](obj, "collection"); err != nil {
		return err
	}
	i.Extra = obj.Rest()
	return nil
}

func (i Item) MarshalJSON() ([]byte, error) {
	return writeHeader(typeFeature, i.StacVersion, i.StacExtensions).
		Set("id", i.ID).
		Set("geometry", i.Geometry).
		SetIf(i.BBox != nil, "bbox", i.BBox).
		Set("properties", i.Properties).
		Set("links", i.Links).
		Set("assets", i.Assets).
		SetIf(i.Collection != nil, "collection", i.Collection).
		Merge(i.Extra).
		Bytes()
}

func (i *Item) LinksOfRel(rel string) []Link {
	return linksOfRel(i.Links, rel)
}

func (i *Item) FirstLinkOfRel(rel string) (Link, bool) {
	return firstLinkOfRel(i.Links, rel)
}

func (i *Item) EO() (EO, error) {
	return decodeView[EO](i.Properties.Extensions)
}

func (i *Item) Projection() (Projection, error) {
	return decodeView[Projection](i.Properties.Extensions)
}

func (i *Item) Scientific() (Scientific, error) {
	return decodeView[Scientific](i.Properties.Extensions)
}

func (i *Item) View() (View, error) {
	return decodeView[View](i.Properties.Extensions)
}

func (p *Properties) UnmarshalJSON(b []byte) error {
	obj, err := record.ParseAt("properties", b)
	if err != nil {
		return err
	}
	if p.CommonMetadata, err = decodeCommon(obj); err != nil {
		return err
	}
	p.Extensions = obj.TakeNamespaced()
	p.Extra = obj.Rest()
	return nil
}

func (p Properties) MarshalJSON() ([]byte, error) {
	w := record.NewWriter()
	p.CommonMetadata.write(w)
	return w.Merge(union(p.Extensions, p.Extra)).Bytes()
}
