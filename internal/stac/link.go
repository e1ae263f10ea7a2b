package stac

import "github.com/andyballingall/stacv/internal/record"

type Link struct {
	Href  string
	Rel   string
	Type  *string
	Title *string
	Extra record.Fields
}

func (l *Link) UnmarshalJSON(b []byte) error {
	obj, err := record.ParseAt("link", b)
	if err != nil {
		return err
	}
	if l.Href, err = record.Require[string](obj, "href"); err != nil {
		return err
	}
	if l.Rel, err = record.Require[string](obj, "rel"); err != nil {
		return err
	}
	if l.Type, err = record.TakePtr[string](obj, "type"); err != nil {
		return err
	}
	if l.Title, err = record.TakePtr[string](obj, "title"); err != nil {
		return err
	}
	l.Extra = obj.Rest()
	return nil
}

func (l Link) MarshalJSON() ([]byte, error) {
	w := record.NewWriter().
		Set("href", l.Href).
		Set("rel", l.Rel)
	record.SetPtr(w, "type", l.Type)
	record.SetPtr(w, "title", l.Title)
	return w.Merge(l.Extra).Bytes()
}

func linksOfRel(links []Link, rel string) []Link {
	var out []Link
	for _, l := range links {
		if l.Rel == rel {
			out = append(out, l)
		}
	}
	return out
}

func firstLinkOfRel(links []Link, rel string) (Link, bool) {
	for _, l := range links {
		if l.Rel == rel {
			return l, true
		}
	}
	return Link{}, false
}
