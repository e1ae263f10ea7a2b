package stac

import (
	json "github.com/goccy/go-json"

	"github.com/andyballingall/stacv/internal/record"
)

type ProviderRole string

const (
	RoleLicensor  ProviderRole = "licensor"
	RoleProducer  ProviderRole = "producer"
	RoleProcessor ProviderRole = "processor"
	RoleHost      ProviderRole = "host"
)

func (r *ProviderRole) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch role := ProviderRole(s); role {
	case RoleLicensor, RoleProducer, RoleProcessor, RoleHost:
		*r = role
		return nil
	}
	return &ProviderRoleError{Role: s}
}

// Provider is an organisation that captured, processed or hosts the data.
type Provider struct {
	Name        string
	Description *string
	Roles       []ProviderRole
	URL         *string
	Extra       record.Fields
}

func (p *Provider) UnmarshalJSON(b []byte) error {
	obj, err := record.ParseAt("provider", b)
	if err != nil {
		return err
	}
	if p.Name, err = record.Require[string](obj, "name"); err != nil {
		return err
	}
	if p.Description, err = record.TakePtr[string](obj, "description"); err != nil {
		return err
	}
	if p.Roles, _, err = record.Take[[]ProviderRole](obj, "roles"); err != nil {
		return err
	}
	if p.URL, err = record.TakePtr[string](obj, "url"); err != nil {
		return err
	}
	p.Extra = obj.Rest()
	return nil
}

func (p Provider) MarshalJSON() ([]byte, error) {
	w := record.NewWriter().Set("name", p.Name)
	record.SetPtr(w, "description", p.Description)
	w.SetIf(p.Roles != nil, "roles", p.Roles)
	record.SetPtr(w, "url", p.URL)
	return w.Merge(p.Extra).Bytes()
}
