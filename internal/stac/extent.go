package stac

import "github.com/andyballingall/stacv/internal/record"

type Extent struct {
	Spatial  SpatialExtent
	Temporal TemporalExtent
	Extra    record.Fields
}

type SpatialExtent struct {
	BBox  [][]float64
	Extra record.Fields
}

// TemporalExtent intervals are [start, end] pairs where either end may be null for an
// open range.
type TemporalExtent struct {
	Interval [][]*string
	Extra    record.Fields
}

func (e *Extent) UnmarshalJSON(b []byte) error {
	obj, err := record.ParseAt("extent", b)
	if err != nil {
		return err
	}
	if e.Spatial, err = record.Require[SpatialExtent](obj, "spatial"); err != nil {
		return err
	}
	if e.Temporal, err = record.Require[TemporalExtent](obj, "temporal"); err != nil {
		return err
	}
	e.Extra = obj.Rest()
	return nil
}

func (e Extent) MarshalJSON() ([]byte, error) {
	return record.NewWriter().
		Set("spatial", e.Spatial).
		Set("temporal", e.Temporal).
		Merge(e.Extra).
		Bytes()
}

func (s *SpatialExtent) UnmarshalJSON(b []byte) error {
	obj, err := record.ParseAt("extent.spatial", b)
	if err != nil {
		return err
	}
	if s.BBox, err = record.Require[[][]float64](obj, "bbox"); err != nil {
		return err
	}
	s.Extra = obj.Rest()
	return nil
}

func (s SpatialExtent) MarshalJSON() ([]byte, error) {
	return record.NewWriter().Set("bbox", s.BBox).Merge(s.Extra).Bytes()
}

func (t *TemporalExtent) UnmarshalJSON(b []byte) error {
	obj, err := record.ParseAt("extent.temporal", b)
	if err != nil {
		return err
	}
	if t.Interval, err = record.Require[[][]*string](obj, "interval"); err != nil {
		return err
	}
	t.Extra = obj.Rest()
	return nil
}

func (t TemporalExtent) MarshalJSON() ([]byte, error) {
	return record.NewWriter().Set("interval", t.Interval).Merge(t.Extra).Bytes()
}
