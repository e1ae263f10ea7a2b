package stac

import "github.com/andyballingall/stacv/internal/record"

// Asset is a file or service referenced by an Item or Collection.
type Asset struct {
	Href        string
	Title       *string
	Description *string
	Type        *string
	Roles       []string
	Extra       record.Fields
}

func (a *Asset) UnmarshalJSON(b []byte) error {
	obj, err := record.ParseAt("asset", b)
	if err != nil {
		return err
	}
	if a.Href, err = record.Require[string](obj, "href"); err != nil {
		return err
	}
	if a.Title, err = record.TakePtr[string](obj, "title"); err != nil {
		return err
	}
	if a.Description, err = record.TakePtr[string](obj, "description"); err != nil {
		return err
	}
	if a.Type, err = record.TakePtr[string](obj, "type"); err != nil {
		return err
	}
	if a.Roles, _, err = record.Take[[]string](obj, "roles"); err != nil {
		return err
	}
	a.Extra = obj.Rest()
	return nil
}

func (a Asset) MarshalJSON() ([]byte, error) {
	w := record.NewWriter().Set("href", a.Href)
	record.SetPtr(w, "title", a.Title)
	record.SetPtr(w, "description", a.Description)
	record.SetPtr(w, "type", a.Type)
	w.SetIf(a.Roles != nil, "roles", a.Roles)
	return w.Merge(a.Extra).Bytes()
}
