package contact

import "encoding/json"

// Card models a JSContact Card document (draft-ietf-calext-jscontact),
// restricted to the members §4.4 names. Map keys are the JSContact
// "property id" convention: caller-chosen identifiers used to correlate an
// entry with its per-language override in Localizations.
type Card struct {
	Kind     string `json:"kind,omitempty"`
	FullName string `json:"fullName,omitempty"`
	Name     *Name  `json:"name,omitempty"`

	Organizations map[string]Organization `json:"organizations,omitempty"`
	Titles        map[string]Title        `json:"titles,omitempty"`
	Addresses     map[string]Address      `json:"addresses,omitempty"`
	Phones        map[string]JSCPhone     `json:"phones,omitempty"`
	Emails        map[string]JSCEmail     `json:"emails,omitempty"`
	Links         map[string]JSCLink      `json:"links,omitempty"`

	Language string `json:"language,omitempty"`

	// Localizations holds, per language tag, a sparse patch object whose
	// shape mirrors Card itself; §4.4 notes only a subset is typically
	// present. Patches are kept raw since the subset varies per entry.
	Localizations map[string]json.RawMessage `json:"localizations,omitempty"`
}

// Name is the JSContact name object: a list of typed components.
type Name struct {
	Components []NameComponent `json:"components,omitempty"`
}

// NameComponent kinds per §4.4: title, given, given2, surname, surname2,
// credential, generation.
type NameComponent struct {
	Kind  string `json:"kind,omitempty"`
	Value string `json:"value,omitempty"`
}

const (
	NameKindTitle      = "title"
	NameKindGiven      = "given"
	NameKindGiven2     = "given2"
	NameKindSurname    = "surname"
	NameKindSurname2   = "surname2"
	NameKindCredential = "credential"
	NameKindGeneration = "generation"
)

// Organization is one entry of Card.Organizations.
type Organization struct {
	Name string `json:"name,omitempty"`
}

// Title is one entry of Card.Titles.
type Title struct {
	Kind  string `json:"kind,omitempty"`
	Title string `json:"title,omitempty"`
}

// Address is one entry of Card.Addresses, built from typed components per
// §4.4 ({name, locality, region, country, postcode, postOfficeBox}) plus an
// optional pre-formatted full string.
type Address struct {
	Components []AddrComponent `json:"components,omitempty"`
	Full       string          `json:"full,omitempty"`
	CountryCode string         `json:"countryCode,omitempty"`
}

// AddrComponent kinds per §4.4.
type AddrComponent struct {
	Kind  string `json:"kind,omitempty"`
	Value string `json:"value,omitempty"`
}

const (
	AddrKindName          = "name"
	AddrKindLocality      = "locality"
	AddrKindRegion        = "region"
	AddrKindCountry       = "country"
	AddrKindPostcode      = "postcode"
	AddrKindPostOfficeBox = "postOfficeBox"
)

// JSCPhone is one entry of Card.Phones: a number with a set of boolean
// feature flags (voice/fax/…) per §4.4.
type JSCPhone struct {
	Number   string          `json:"number,omitempty"`
	Features map[string]bool `json:"features,omitempty"`
	Contexts map[string]bool `json:"contexts,omitempty"`
}

// JSCEmail is one entry of Card.Emails.
type JSCEmail struct {
	Address  string          `json:"address,omitempty"`
	Contexts map[string]bool `json:"contexts,omitempty"`
}

// JSCLink is one entry of Card.Links; kind distinguishes a plain "url" link
// from a "contact-uri" link.
type JSCLink struct {
	Kind string `json:"kind,omitempty"`
	URI  string `json:"uri,omitempty"`
}

const (
	LinkKindURL        = "url"
	LinkKindContactURI = "contact-uri"
)

// FromJSContact converts a JSContact Card into the canonical Contact.
func FromJSContact(card *Card) Contact {
	if card == nil {
		return Contact{}
	}

	c := Contact{
		FullName: card.FullName,
		Lang:     card.Language,
	}

	if card.Name != nil {
		np := &NameParts{}
		for _, comp := range card.Name.Components {
			switch comp.Kind {
			case NameKindTitle:
				np.Prefixes = append(np.Prefixes, comp.Value)
			case NameKindGiven:
				np.Given = comp.Value
			case NameKindGiven2:
				np.Middle = append(np.Middle, comp.Value)
			case NameKindSurname, NameKindSurname2:
				np.Surnames = append(np.Surnames, comp.Value)
			case NameKindCredential:
				np.Suffixes = append(np.Suffixes, comp.Value)
			case NameKindGeneration:
				np.Generation = comp.Value
			}
		}
		c.NameParts = np
	}

	for _, org := range card.Organizations {
		if org.Name != "" {
			c.OrganizationNames = append(c.OrganizationNames, org.Name)
		}
	}

	for _, t := range card.Titles {
		if t.Title != "" {
			c.Titles = append(c.Titles, t.Title)
		}
	}

	for _, addr := range card.Addresses {
		pa := PostalAddress{FullAddress: addr.Full, CountryCode: addr.CountryCode}
		for _, comp := range addr.Components {
			switch comp.Kind {
			case AddrKindName, AddrKindPostOfficeBox:
				pa.StreetParts = append(pa.StreetParts, comp.Value)
			case AddrKindLocality:
				pa.Locality = comp.Value
			case AddrKindRegion:
				pa.Region = comp.Value
			case AddrKindCountry:
				pa.Country = comp.Value
			case AddrKindPostcode:
				pa.PostalCode = comp.Value
			}
		}
		c.PostalAddresses = append(c.PostalAddresses, pa)
	}

	for _, p := range card.Phones {
		ph := Phone{Number: p.Number}
		for feature, on := range p.Features {
			if on {
				ph.Features = append(ph.Features, feature)
			}
		}
		for ctx, on := range p.Contexts {
			if on {
				ph.Contexts = append(ph.Contexts, ctx)
			}
		}
		c.Phones = append(c.Phones, ph)
	}

	for _, e := range card.Emails {
		em := Email{Address: e.Address}
		for ctx, on := range e.Contexts {
			if on {
				em.Contexts = append(em.Contexts, ctx)
			}
		}
		c.Emails = append(c.Emails, em)
	}

	for _, link := range card.Links {
		switch link.Kind {
		case LinkKindContactURI:
			c.ContactURIs = append(c.ContactURIs, link.URI)
		default:
			c.URLs = append(c.URLs, link.URI)
		}
	}

	return c
}

// ToJSContact converts the canonical Contact into a JSContact Card.
func ToJSContact(c Contact) *Card {
	card := &Card{
		FullName: c.FullName,
		Language: c.Lang,
	}

	if c.NameParts != nil {
		name := &Name{}
		for _, p := range c.NameParts.Prefixes {
			name.Components = append(name.Components, NameComponent{Kind: NameKindTitle, Value: p})
		}
		if c.NameParts.Given != "" {
			name.Components = append(name.Components, NameComponent{Kind: NameKindGiven, Value: c.NameParts.Given})
		}
		for _, m := range c.NameParts.Middle {
			name.Components = append(name.Components, NameComponent{Kind: NameKindGiven2, Value: m})
		}
		for _, s := range c.NameParts.Surnames {
			name.Components = append(name.Components, NameComponent{Kind: NameKindSurname, Value: s})
		}
		for _, s := range c.NameParts.Suffixes {
			name.Components = append(name.Components, NameComponent{Kind: NameKindCredential, Value: s})
		}
		if c.NameParts.Generation != "" {
			name.Components = append(name.Components, NameComponent{Kind: NameKindGeneration, Value: c.NameParts.Generation})
		}
		card.Name = name
	}

	if len(c.OrganizationNames) > 0 {
		card.Organizations = make(map[string]Organization, len(c.OrganizationNames))
		for i, name := range c.OrganizationNames {
			card.Organizations[indexedKey("org", i)] = Organization{Name: name}
		}
	}

	if len(c.Titles) > 0 {
		card.Titles = make(map[string]Title, len(c.Titles))
		for i, t := range c.Titles {
			card.Titles[indexedKey("title", i)] = Title{Kind: "title", Title: t}
		}
	}

	if len(c.PostalAddresses) > 0 {
		card.Addresses = make(map[string]Address, len(c.PostalAddresses))
		for i, pa := range c.PostalAddresses {
			addr := Address{Full: pa.FullAddress, CountryCode: pa.CountryCode}
			for _, street := range pa.StreetParts {
				addr.Components = append(addr.Components, AddrComponent{Kind: AddrKindName, Value: street})
			}
			if pa.Locality != "" {
				addr.Components = append(addr.Components, AddrComponent{Kind: AddrKindLocality, Value: pa.Locality})
			}
			if pa.Region != "" {
				addr.Components = append(addr.Components, AddrComponent{Kind: AddrKindRegion, Value: pa.Region})
			}
			if pa.Country != "" {
				addr.Components = append(addr.Components, AddrComponent{Kind: AddrKindCountry, Value: pa.Country})
			}
			if pa.PostalCode != "" {
				addr.Components = append(addr.Components, AddrComponent{Kind: AddrKindPostcode, Value: pa.PostalCode})
			}
			card.Addresses[indexedKey("addr", i)] = addr
		}
	}

	if len(c.Phones) > 0 {
		card.Phones = make(map[string]JSCPhone, len(c.Phones))
		for i, p := range c.Phones {
			jp := JSCPhone{Number: p.Number}
			if len(p.Features) > 0 {
				jp.Features = map[string]bool{}
				for _, f := range p.Features {
					jp.Features[f] = true
				}
			}
			if len(p.Contexts) > 0 {
				jp.Contexts = map[string]bool{}
				for _, ctx := range p.Contexts {
					jp.Contexts[ctx] = true
				}
			}
			card.Phones[indexedKey("phone", i)] = jp
		}
	}

	if len(c.Emails) > 0 {
		card.Emails = make(map[string]JSCEmail, len(c.Emails))
		for i, e := range c.Emails {
			je := JSCEmail{Address: e.Address}
			if len(e.Contexts) > 0 {
				je.Contexts = map[string]bool{}
				for _, ctx := range e.Contexts {
					je.Contexts[ctx] = true
				}
			}
			card.Emails[indexedKey("email", i)] = je
		}
	}

	if len(c.URLs) > 0 || len(c.ContactURIs) > 0 {
		card.Links = map[string]JSCLink{}
		for i, u := range c.URLs {
			card.Links[indexedKey("url", i)] = JSCLink{Kind: LinkKindURL, URI: u}
		}
		for i, u := range c.ContactURIs {
			card.Links[indexedKey("contact-uri", i)] = JSCLink{Kind: LinkKindContactURI, URI: u}
		}
	}

	return card
}

func indexedKey(prefix string, i int) string {
	if i == 0 {
		return prefix
	}
	return prefix + "-" + itoa(i)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
