package redact

import (
	"strings"

	"github.com/rdapkit/rdap"
	"github.com/rdapkit/rdap/contact"
)

// Sentinel values substituted by the simple-redaction transforms.
const (
	sentinelID       = "////REDACTED_ID////"
	sentinelName     = "////REDACTED_NAME////"
	sentinelStreet   = "////REDACTED_STREET////"
	sentinelCity     = "////REDACTED_CITY////"
	sentinelPostcode = "////REDACTED_POSTAL_CODE////"
	sentinelPhone    = "////REDACTED_PHONE////"
	sentinelPhoneExt = "////REDACTED_PHONE_EXT////"
	sentinelFax      = "////REDACTED_FAX////"
	sentinelFaxExt   = "////REDACTED_FAX_EXT////"
	sentinelEmail    = "redacted_email@redacted.invalid"
)

// simpleTransform applies one IANA-registered simple redaction name.type to
// the domain-level handle or to the first matching registrant/technical
// entity, returning whether a target was found and redacted.
type simpleTransform struct {
	role      string // "registrant" or "technical", or "" for domain-level
	sentinel  string
	humanText string
	apply     func(c *contact.Contact, sentinel string)
}

var simpleTransforms = map[string]simpleTransform{
	"Registry Domain ID": {
		sentinel:  sentinelID,
		humanText: "ID redacted.",
	},
	"Registry Registrant ID": {
		role:      "registrant",
		sentinel:  sentinelID,
		humanText: "ID redacted.",
	},
	"Registry Tech ID": {
		role:      "technical",
		sentinel:  sentinelID,
		humanText: "ID redacted.",
	},
	"Registrant Name": {
		role:      "registrant",
		sentinel:  sentinelName,
		humanText: "Name redacted.",
		apply:     redactName,
	},
	"Tech Name": {
		role:      "technical",
		sentinel:  sentinelName,
		humanText: "Name redacted.",
		apply:     redactName,
	},
	"Registrant Street": {
		role:      "registrant",
		sentinel:  sentinelStreet,
		humanText: "Street redacted.",
		apply:     redactStreet,
	},
	"Registrant City": {
		role:      "registrant",
		sentinel:  sentinelCity,
		humanText: "City redacted.",
		apply:     redactCity,
	},
	"Registrant Postal Code": {
		role:      "registrant",
		sentinel:  sentinelPostcode,
		humanText: "Postal code redacted.",
		apply:     redactPostalCode,
	},
	"Registrant Phone": {
		role:      "registrant",
		sentinel:  sentinelPhone,
		humanText: "Phone number redacted.",
		apply:     redactPhone,
	},
	"Registrant Phone Ext": {
		role:      "registrant",
		sentinel:  sentinelPhoneExt,
		humanText: "Phone extension redacted.",
		apply:     redactPhoneExt,
	},
	"Registrant Fax": {
		role:      "registrant",
		sentinel:  sentinelFax,
		humanText: "Fax number redacted.",
		apply:     redactFax,
	},
	"Registrant Fax Ext": {
		role:      "registrant",
		sentinel:  sentinelFaxExt,
		humanText: "Fax extension redacted.",
		apply:     redactFaxExt,
	},
	"Registrant Email": {
		role:      "registrant",
		sentinel:  sentinelEmail,
		humanText: "Email redacted.",
		apply:     redactEmail,
	},
	"Tech Email": {
		role:      "technical",
		sentinel:  sentinelEmail,
		humanText: "Email redacted.",
		apply:     redactEmail,
	},
	"Tech Phone": {
		role:      "technical",
		sentinel:  sentinelPhone,
		humanText: "Phone number redacted.",
		apply:     redactPhone,
	},
	"Tech Phone Ext": {
		role:      "technical",
		sentinel:  sentinelPhoneExt,
		humanText: "Phone extension redacted.",
		apply:     redactPhoneExt,
	},
}

// ApplySimpleRedaction applies the named IANA simple redaction to domain,
// reporting whether a target (the domain handle, or a matching entity) was
// found and redacted.
func ApplySimpleRedaction(domain *rdap.Domain, name string) bool {
	transform, ok := simpleTransforms[name]
	if !ok {
		return false
	}

	if transform.role == "" {
		if domain.Handle == "" {
			return false
		}
		domain.Handle = transform.sentinel
		addRemark(&domain.ObjectCommon, transform.sentinel, transform.humanText)
		return true
	}

	entity := findEntityByRole(domain.Entities, transform.role)
	if entity == nil {
		return false
	}

	if transform.apply == nil {
		if entity.Handle == "" {
			return false
		}
		entity.Handle = transform.sentinel
		addRemark(&entity.ObjectCommon, transform.sentinel, transform.humanText)
		return true
	}

	c, repr, err := contactFromEntity(entity)
	if err != nil {
		return false
	}

	transform.apply(&c, transform.sentinel)

	if err := contactToEntity(entity, c, repr); err != nil {
		return false
	}

	addRemark(&entity.ObjectCommon, transform.sentinel, transform.humanText)
	return true
}

func findEntityByRole(entities []rdap.Entity, role string) *rdap.Entity {
	for i := range entities {
		for _, r := range entities[i].Roles {
			if r == role {
				return &entities[i]
			}
		}
	}
	return nil
}

type representation int

const (
	reprVCard representation = iota
	reprJSContact
)

func contactFromEntity(e *rdap.Entity) (contact.Contact, representation, error) {
	if len(e.VCardArray) > 0 {
		c, err := contact.FromVCard(e.VCardArray)
		return c, reprVCard, err
	}
	if e.JSContactCard != nil {
		return contact.FromJSContact(e.JSContactCard), reprJSContact, nil
	}
	return contact.Contact{}, reprVCard, errNoRepresentation
}

func contactToEntity(e *rdap.Entity, c contact.Contact, repr representation) error {
	switch repr {
	case reprVCard:
		raw, err := contact.ToVCard(c)
		if err != nil {
			return err
		}
		e.VCardArray = raw
	case reprJSContact:
		e.JSContactCard = contact.ToJSContact(c)
	}
	return nil
}

// addRemark appends a Remark recording the redaction sentinel and human
// text, unless a remark for the same sentinel is already present.
func addRemark(o *rdap.ObjectCommon, sentinel, humanText string) {
	for _, r := range o.Remarks {
		if r.Title == sentinel {
			return
		}
	}
	o.Remarks = append(o.Remarks, rdap.NoticeOrRemark{
		Title:       sentinel,
		Type:        "simpleRedactionKey",
		Description: rdap.VectorStringish{Values: []string{humanText}},
	})
}

func redactName(c *contact.Contact, sentinel string) {
	c.FullName = sentinel
	if c.NameParts != nil {
		c.NameParts = &contact.NameParts{Given: sentinel}
	}
	for lang := range c.Localizations {
		loc := c.Localizations[lang]
		loc.FullName = sentinel
		if loc.NameParts != nil {
			loc.NameParts = &contact.NameParts{Given: sentinel}
		}
		c.Localizations[lang] = loc
	}
}

func redactStreet(c *contact.Contact, sentinel string) {
	if len(c.PostalAddresses) == 0 {
		return
	}
	c.PostalAddresses[0].StreetParts = []string{sentinel}
}

func redactCity(c *contact.Contact, sentinel string) {
	if len(c.PostalAddresses) == 0 {
		return
	}
	c.PostalAddresses[0].Locality = sentinel
}

func redactPostalCode(c *contact.Contact, sentinel string) {
	if len(c.PostalAddresses) == 0 {
		return
	}
	c.PostalAddresses[0].PostalCode = sentinel
}

func redactPhone(c *contact.Contact, sentinel string) {
	redactPhoneByFeature(c, sentinel, "voice", false)
}

func redactFax(c *contact.Contact, sentinel string) {
	redactPhoneByFeature(c, sentinel, "fax", false)
}

func redactPhoneExt(c *contact.Contact, sentinel string) {
	redactPhoneByFeature(c, sentinel, "voice", true)
}

func redactFaxExt(c *contact.Contact, sentinel string) {
	redactPhoneByFeature(c, sentinel, "fax", true)
}

func redactPhoneByFeature(c *contact.Contact, sentinel, feature string, extOnly bool) {
	for i := range c.Phones {
		hasFeature := len(c.Phones[i].Features) == 0
		for _, f := range c.Phones[i].Features {
			if f == feature {
				hasFeature = true
			}
		}
		if !hasFeature {
			continue
		}

		if extOnly {
			c.Phones[i].Number = redactExtension(c.Phones[i].Number, sentinel)
		} else {
			c.Phones[i].Number = sentinel
		}
		return
	}
}

// redactExtension substitutes only the ";ext=" portion of number if
// present, otherwise appends " <sentinel>". Idempotent: a number that
// already ends in the appended sentinel is returned unchanged, so applying
// the same registered redaction twice doesn't double the suffix.
func redactExtension(number, sentinel string) string {
	idx := strings.Index(number, ";ext=")
	if idx == -1 {
		suffix := " " + sentinel
		if strings.HasSuffix(number, suffix) {
			return number
		}
		return number + suffix
	}
	return number[:idx+len(";ext=")] + sentinel
}

func redactEmail(c *contact.Contact, sentinel string) {
	if len(c.Emails) == 0 {
		c.Emails = []contact.Email{{Address: sentinel}}
		return
	}
	c.Emails[0].Address = sentinel
}

var errNoRepresentation = contactRepresentationError("entity has neither a vcardArray nor a jscontactCard")

type contactRepresentationError string

func (e contactRepresentationError) Error() string { return string(e) }
