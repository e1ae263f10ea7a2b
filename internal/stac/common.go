package stac

import (
	"fmt"
	"time"

	"github.com/andyballingall/stacv/internal/record"
)

// CommonMetadata is the set of well-known descriptive fields shared by Item properties.
// Instants are kept as their wire strings; use Instant to parse one.
type CommonMetadata struct {
	Title         *string
	Description   *string
	Datetime      *string
	Created       *string
	Updated       *string
	StartDatetime *string
	EndDatetime   *string
	License       *string
	Providers     []Provider
	Platform      *string
	Instruments   []string
	Constellation *string
	Mission       *string
	GSD           *float64
}

func decodeCommon(obj *record.Object) (CommonMetadata, error) {
	var (
		c   CommonMetadata
		err error
	)
	strs := []struct {
		key string
		dst **string
	}{
		{"title", &c.Title},
		{"description", &c.Description},
		{"datetime", &c.Datetime},
		{"created", &c.Created},
		{"updated", &c.Updated},
		{"start_datetime", &c.StartDatetime},
		{"end_datetime", &c.EndDatetime},
		{"license", &c.License},
		{"platform", &c.Platform},
		{"constellation", &c.Constellation},
		{"mission", &c.Mission},
	}
	for _, s := range strs {
		if *s.dst, err = record.TakePtr[string](obj, s.key); err != nil {
			return c, err
		}
	}
	if c.Providers, _, err = record.Take[[]Provider](obj, "providers"); err != nil {
		return c, err
	}
	if c.Instruments, _, err = record.Take[[]string](obj, "instruments"); err != nil {
		return c, err
	}
	if c.GSD, err = record.TakePtr[float64](obj, "gsd"); err != nil {
		return c, err
	}
	return c, nil
}

func (c CommonMetadata) write(w *record.Writer) {
	record.SetPtr(w, "title", c.Title)
	record.SetPtr(w, "description", c.Description)
	record.SetPtr(w, "datetime", c.Datetime)
	record.SetPtr(w, "created", c.Created)
	record.SetPtr(w, "updated", c.Updated)
	record.SetPtr(w, "start_datetime", c.StartDatetime)
	record.SetPtr(w, "end_datetime", c.EndDatetime)
	record.SetPtr(w, "license", c.License)
	w.SetIf(c.Providers != nil, "providers", c.Providers)
	record.SetPtr(w, "platform", c.Platform)
	w.SetIf(c.Instruments != nil, "instruments", c.Instruments)
	record.SetPtr(w, "constellation", c.Constellation)
	record.SetPtr(w, "mission", c.Mission)
	record.SetPtr(w, "gsd", c.GSD)
}

// Instant parses one of the timestamp fields by its wire name. It returns false when the
// field is absent.
func (c CommonMetadata) Instant(field string) (time.Time, bool, error) {
	var s *string
	switch field {
	case "datetime":
		s = c.Datetime
	case "created":
		s = c.Created
	case "updated":
		s = c.Updated
	case "start_datetime":
		s = c.StartDatetime
	case "end_datetime":
		s = c.EndDatetime
	default:
		return time.Time{}, false, fmt.Errorf("%q is not a timestamp field", field)
	}
	if s == nil {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return time.Time{}, true, &TemporalError{Field: field, Reason: fmt.Sprintf("%q is not an RFC 3339 timestamp", *s)}
	}
	return t, true, nil
}

// CheckTemporal applies the rules that tie the timestamp fields together: without a
// datetime both ends of the range are required, every timestamp must be RFC 3339, and
// the range must not run backwards.
func (c CommonMetadata) CheckTemporal() error {
	if c.Datetime == nil {
		if c.StartDatetime == nil {
			return &TemporalError{Field: "start_datetime", Reason: "required when datetime is null"}
		}
		if c.EndDatetime == nil {
			return &TemporalError{Field: "end_datetime", Reason: "required when datetime is null"}
		}
	}
	for _, f := range []string{"datetime", "created", "updated", "start_datetime", "end_datetime"} {
		if _, _, err := c.Instant(f); err != nil {
			return err
		}
	}
	start, hasStart, _ := c.Instant("start_datetime")
	end, hasEnd, _ := c.Instant("end_datetime")
	if hasStart && hasEnd && end.Before(start) {
		return &TemporalError{Field: "end_datetime", Reason: "is before start_datetime"}
	}
	return nil
}
