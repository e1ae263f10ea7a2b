package stac

import (
	json "github.com/goccy/go-json"

	"github.com/andyballingall/stacv/internal/record"
)

// The views below decode the prefixed members of an extension bag on demand. A member
// of the wrong JSON type is a decode failure here but never when the document itself is
// decoded, so such documents still reach schema validation.

type EO struct {
	Bands      []Band   `json:"eo:bands,omitempty"`
	CloudCover *float64 `json:"eo:cloud_cover,omitempty"`
}

type Band struct {
	Name              *string  `json:"name,omitempty"`
	CommonName        *string  `json:"common_name,omitempty"`
	Description       *string  `json:"description,omitempty"`
	CenterWavelength  *float64 `json:"center_wavelength,omitempty"`
	FullWidthHalfMax  *float64 `json:"full_width_half_max,omitempty"`
	SolarIllumination *float64 `json:"solar_illumination,omitempty"`
}

type Projection struct {
	EPSG      *int64          `json:"proj:epsg,omitempty"`
	WKT2      *string         `json:"proj:wkt2,omitempty"`
	PROJJSON  json.RawMessage `json:"proj:projjson,omitempty"`
	Geometry  json.RawMessage `json:"proj:geometry,omitempty"`
	BBox      []float64       `json:"proj:bbox,omitempty"`
	Centroid  *Centroid       `json:"proj:centroid,omitempty"`
	Shape     []int           `json:"proj:shape,omitempty"`
	Transform []float64       `json:"proj:transform,omitempty"`
}

type Centroid struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Scientific struct {
	DOI          *string       `json:"sci:doi,omitempty"`
	Citation     *string       `json:"sci:citation,omitempty"`
	Publications []Publication `json:"sci:publications,omitempty"`
}

type Publication struct {
	DOI      *string `json:"doi,omitempty"`
	Citation *string `json:"citation,omitempty"`
}

type View struct {
	OffNadir       *float64 `json:"view:off_nadir,omitempty"`
	IncidenceAngle *float64 `json:"view:incidence_angle,omitempty"`
	Azimuth        *float64 `json:"view:azimuth,omitempty"`
	SunAzimuth     *float64 `json:"view:sun_azimuth,omitempty"`
	SunElevation   *float64 `json:"view:sun_elevation,omitempty"`
}

func decodeView[T any](ext record.Fields) (T, error) {
	var v T
	if len(ext) == 0 {
		return v, nil
	}
	return v, ext.Decode(&v)
}
