package contact

import (
	"encoding/json"

	"github.com/rdapkit/rdap/jcard"
)

// FromVCard converts a jCard document (RFC 7095, as carried in an entity's
// vcardArray member) into the canonical Contact.
func FromVCard(raw json.RawMessage) (Contact, error) {
	j, err := jcard.NewJCard(raw)
	if err != nil {
		return Contact{}, err
	}

	var c Contact

	if p := first(j.Get("fn")); p != nil {
		c.FullName = joinValues(p)
	}

	if p := first(j.Get("n")); p != nil {
		values := p.Values()
		np := &NameParts{}
		if len(values) > 0 {
			np.Surnames = splitNonEmpty(values[0])
		}
		if len(values) > 1 && values[1] != "" {
			np.Given = values[1]
		}
		if len(values) > 2 {
			np.Middle = splitNonEmpty(values[2])
		}
		if len(values) > 3 {
			np.Prefixes = splitNonEmpty(values[3])
		}
		if len(values) > 4 {
			np.Suffixes = splitNonEmpty(values[4])
		}
		c.NameParts = np
	}

	for _, p := range j.Get("org") {
		values := p.Values()
		if len(values) > 0 && values[0] != "" {
			c.OrganizationNames = append(c.OrganizationNames, values[0])
		}
	}

	for _, p := range j.Get("title") {
		c.Titles = append(c.Titles, joinValues(p))
	}

	for _, p := range j.Get("role") {
		c.Roles = append(c.Roles, joinValues(p))
	}

	for _, p := range j.Get("email") {
		c.Emails = append(c.Emails, Email{
			Address:  joinValues(p),
			Contexts: p.Parameters["type"],
		})
	}

	for _, p := range j.Get("tel") {
		c.Phones = append(c.Phones, Phone{
			Number:   joinValues(p),
			Features: telFeatures(p.Parameters["type"]),
			Contexts: telContexts(p.Parameters["type"]),
		})
	}

	for _, p := range j.Get("adr") {
		values := p.Values()
		pa := PostalAddress{}
		if len(values) > 2 {
			pa.StreetParts = splitNonEmpty(values[2])
		}
		if len(values) > 3 {
			pa.Locality = values[3]
		}
		if len(values) > 4 {
			pa.Region = values[4]
		}
		if len(values) > 5 {
			pa.PostalCode = values[5]
		}
		if len(values) > 6 {
			pa.Country = values[6]
		}
		if cc, ok := p.Parameters["cc"]; ok && len(cc) > 0 {
			pa.CountryCode = cc[0]
		}
		c.PostalAddresses = append(c.PostalAddresses, pa)
	}

	for _, p := range j.Get("url") {
		c.URLs = append(c.URLs, joinValues(p))
	}

	for _, p := range j.Get("contact-uri") {
		c.ContactURIs = append(c.ContactURIs, joinValues(p))
	}

	if p := first(j.Get("lang")); p != nil {
		c.Lang = joinValues(p)
	}

	return c, nil
}

// ToVCard converts the canonical Contact into a jCard document (RFC 7095).
func ToVCard(c Contact) (json.RawMessage, error) {
	var properties []*jcard.Property

	properties = append(properties, textProperty("version", "4.0"))

	if c.FullName != "" {
		properties = append(properties, textProperty("fn", c.FullName))
	} else if c.NameParts != nil {
		properties = append(properties, textProperty("fn", synthesizeFullName(c.NameParts)))
	}

	if c.NameParts != nil {
		properties = append(properties, &jcard.Property{
			Name:       "n",
			Parameters: map[string][]string{},
			Type:       "text",
			Value: toValueSlice([]string{
				joinNonEmpty(c.NameParts.Surnames),
				c.NameParts.Given,
				joinNonEmpty(c.NameParts.Middle),
				joinNonEmpty(c.NameParts.Prefixes),
				joinNonEmpty(c.NameParts.Suffixes),
			}),
		})
	}

	for _, org := range c.OrganizationNames {
		properties = append(properties, textProperty("org", org))
	}

	for _, title := range c.Titles {
		properties = append(properties, textProperty("title", title))
	}

	for _, role := range c.Roles {
		properties = append(properties, textProperty("role", role))
	}

	for _, e := range c.Emails {
		p := textProperty("email", e.Address)
		if len(e.Contexts) > 0 {
			p.Parameters["type"] = e.Contexts
		}
		properties = append(properties, p)
	}

	for _, ph := range c.Phones {
		p := &jcard.Property{
			Name:       "tel",
			Parameters: map[string][]string{},
			Type:       "uri",
			Value:      ph.Number,
		}
		types := append([]string(nil), ph.Features...)
		types = append(types, ph.Contexts...)
		if len(types) > 0 {
			p.Parameters["type"] = types
		}
		properties = append(properties, p)
	}

	for _, pa := range c.PostalAddresses {
		p := &jcard.Property{
			Name:       "adr",
			Parameters: map[string][]string{},
			Type:       "text",
			Value: toValueSlice([]string{
				"",
				"",
				joinNonEmpty(pa.StreetParts),
				pa.Locality,
				pa.Region,
				pa.PostalCode,
				pa.Country,
			}),
		}
		if pa.CountryCode != "" {
			p.Parameters["cc"] = []string{pa.CountryCode}
		}
		properties = append(properties, p)
	}

	for _, u := range c.URLs {
		properties = append(properties, textProperty("url", u))
	}

	for _, u := range c.ContactURIs {
		properties = append(properties, textProperty("contact-uri", u))
	}

	if c.Lang != "" {
		properties = append(properties, textProperty("lang", c.Lang))
	}

	j := jcard.NewJCardFromProperties(properties)

	return j.MarshalJSON()
}

func textProperty(name, value string) *jcard.Property {
	return &jcard.Property{
		Name:       name,
		Parameters: map[string][]string{},
		Type:       "text",
		Value:      value,
	}
}

func first(properties []*jcard.Property) *jcard.Property {
	if len(properties) == 0 {
		return nil
	}
	return properties[0]
}

func joinValues(p *jcard.Property) string {
	values := p.Values()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

func joinNonEmpty(parts []string) string {
	for _, p := range parts {
		if p != "" {
			return p
		}
	}
	return ""
}

func toValueSlice(values []string) interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func synthesizeFullName(np *NameParts) string {
	parts := append([]string(nil), np.Prefixes...)
	if np.Given != "" {
		parts = append(parts, np.Given)
	}
	parts = append(parts, np.Middle...)
	parts = append(parts, np.Surnames...)
	parts = append(parts, np.Suffixes...)

	name := ""
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i > 0 && name != "" {
			name += " "
		}
		name += p
	}
	return name
}

func telFeatures(types []string) []string {
	var out []string
	for _, t := range types {
		switch t {
		case "voice", "fax", "cell", "video", "pager", "text", "textphone":
			out = append(out, t)
		}
	}
	return out
}

func telContexts(types []string) []string {
	var out []string
	for _, t := range types {
		switch t {
		case "home", "work":
			out = append(out, t)
		}
	}
	return out
}
