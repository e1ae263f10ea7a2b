package stac

import (
	"errors"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

type Kind int

const (
	KindCatalog Kind = iota + 1
	KindCollection
	KindItem
)

func (k Kind) String() string {
	switch k {
	case KindCatalog:
		return "Catalog"
	case KindCollection:
		return "Collection"
	case KindItem:
		return "Item"
	}
	return "Unknown"
}

// WireType is the value of the "type" member for documents of this kind.
func (k Kind) WireType() string {
	switch k {
	case KindCatalog:
		return typeCatalog
	case KindCollection:
		return typeCollection
	case KindItem:
		return typeFeature
	}
	return ""
}

// Meta is what schema resolution needs to know about a document.
type Meta interface {
	StacVersion() string
	DeclaredType() Kind
	DeclaredExtensions() []string
}

// Object refers to exactly one Catalog, Collection or Item. It does not copy the
// document, so the document must not be modified while the Object is in use.
type Object struct {
	kind       Kind
	catalog    *Catalog
	collection *Collection
	item       *Item
}

var _ Meta = Object{}

func (c *Catalog) Object() Object {
	return Object{kind: KindCatalog, catalog: c}
}

func (c *Collection) Object() Object {
	return Object{kind: KindCollection, collection: c}
}

func (i *Item) Object() Object {
	return Object{kind: KindItem, item: i}
}

func (o Object) Catalog() (*Catalog, bool) {
	return o.catalog, o.kind == KindCatalog
}

func (o Object) Collection() (*Collection, bool) {
	return o.collection, o.kind == KindCollection
}

func (o Object) Item() (*Item, bool) {
	return o.item, o.kind == KindItem
}

func (o Object) ID() string {
	switch o.kind {
	case KindCatalog:
		return o.catalog.ID
	case KindCollection:
		return o.collection.ID
	case KindItem:
		return o.item.ID
	}
	return ""
}

func (o Object) StacVersion() string {
	switch o.kind {
	case KindCatalog:
		return o.catalog.StacVersion
	case KindCollection:
		return o.collection.StacVersion
	case KindItem:
		return o.item.StacVersion
	}
	return ""
}

func (o Object) DeclaredType() Kind {
	return o.kind
}

func (o Object) DeclaredExtensions() []string {
	switch o.kind {
	case KindCatalog:
		return o.catalog.StacExtensions
	case KindCollection:
		return o.collection.StacExtensions
	case KindItem:
		return o.item.StacExtensions
	}
	return nil
}

// Temporal returns the common metadata that carries timestamps. Only Items have one.
func (o Object) Temporal() (CommonMetadata, bool) {
	if o.kind != KindItem {
		return CommonMetadata{}, false
	}
	return o.item.Properties.CommonMetadata, true
}

// MarshalJSON encodes the underlying document.
func (o Object) MarshalJSON() ([]byte, error) {
	switch o.kind {
	case KindCatalog:
		return json.Marshal(o.catalog)
	case KindCollection:
		return json.Marshal(o.collection)
	case KindItem:
		return json.Marshal(o.item)
	}
	return nil, errEmptyObject
}

var (
	errEmptyObject = errors.New("object does not refer to a document")
	errInvalidJSON = errors.New("document is not valid JSON")
)

// Decode decodes a Catalog, Collection or Item, choosing the shape from the document's
// "type" member.
func Decode(b []byte) (Object, error) {
	wireType, err := sniffType(b)
	if err != nil {
		return Object{}, err
	}
	switch wireType {
	case typeCatalog:
		c := &Catalog{}
		if err := c.UnmarshalJSON(b); err != nil {
			return Object{}, &DecodeError{Type: wireType, Err: err}
		}
		return c.Object(), nil
	case typeCollection:
		c := &Collection{}
		if err := c.UnmarshalJSON(b); err != nil {
			return Object{}, &DecodeError{Type: wireType, Err: err}
		}
		return c.Object(), nil
	case typeFeature:
		i := &Item{}
		if err := i.UnmarshalJSON(b); err != nil {
			return Object{}, &DecodeError{Type: "Item", Err: err}
		}
		return i.Object(), nil
	}
	return Object{}, &DecodeError{Err: &UnknownTypeError{Type: wireType}}
}

// DecodeDocuments is Decode that also accepts a FeatureCollection, returning one Object
// per feature.
func DecodeDocuments(b []byte) ([]Object, error) {
	wireType, err := sniffType(b)
	if err != nil {
		return nil, err
	}
	if wireType != typeFeatureCollect {
		obj, err := Decode(b)
		if err != nil {
			return nil, err
		}
		return []Object{obj}, nil
	}
	fc, err := DecodeItemCollection(b)
	if err != nil {
		return nil, err
	}
	objs := make([]Object, len(fc.Features))
	for i := range fc.Features {
		objs[i] = fc.Features[i].Object()
	}
	return objs, nil
}

func sniffType(b []byte) (string, error) {
	if !gjson.ValidBytes(b) {
		return "", &DecodeError{Err: errInvalidJSON}
	}
	t := gjson.GetBytes(b, "type")
	if t.Type != gjson.String {
		return "", &DecodeError{Err: &UnknownTypeError{}}
	}
	return t.String(), nil
}

// Reencode decodes b as any supported document, FeatureCollections included, and
// encodes it again in canonical form.
func Reencode(b []byte) ([]byte, error) {
	wireType, err := sniffType(b)
	if err != nil {
		return nil, err
	}
	if wireType == typeFeatureCollect {
		fc, err := DecodeItemCollection(b)
		if err != nil {
			return nil, err
		}
		return json.Marshal(fc)
	}
	obj, err := Decode(b)
	if err != nil {
		return nil, err
	}
	return obj.MarshalJSON()
}
