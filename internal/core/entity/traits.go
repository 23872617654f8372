package entity

import (
	"strings"
)

// Address is a trait for entities that carry a postal address.
// Used for composition in models like Student, Employee, Guardian.
type Address struct {
	AddressLine1 string `db:"address_line_1" json:"addressLine1,omitempty"`
	AddressLine2 string `db:"address_line_2" json:"addressLine2,omitempty"`
	City         string `db:"city" json:"city,omitempty"`
	State        string `db:"state" json:"state,omitempty"`
	PostalCode   string `db:"postal_code" json:"postalCode,omitempty"`
	Country      string `db:"country" json:"country,omitempty"`
}

// FullAddress returns the comma-joined non-empty address parts.
func (a *Address) FullAddress() string {
	parts := []string{
		a.AddressLine1,
		a.AddressLine2,
		a.City,
		a.State,
		a.PostalCode,
		a.Country,
	}
	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ", ")
}

// Contact is a trait for entities that carry contact details.
type Contact struct {
	Phone            string `db:"phone" json:"phone,omitempty"`
	Mobile           string `db:"mobile" json:"mobile,omitempty"`
	Email            string `db:"email" json:"email,omitempty"`
	EmergencyContact string `db:"emergency_contact" json:"emergencyContact,omitempty"`
	EmergencyPhone   string `db:"emergency_phone" json:"emergencyPhone,omitempty"`
}

// RelatedRef is a trait for entities that point at another record without a
// hard foreign key (notifications and attachments reference arbitrary models).
type RelatedRef struct {
	RelatedModel    string `db:"related_model" json:"relatedModel,omitempty"`
	RelatedObjectID string `db:"related_object_id" json:"relatedObjectId,omitempty"`
}

// HasRelated reports whether the reference is set.
func (r *RelatedRef) HasRelated() bool {
	return r.RelatedModel != "" && r.RelatedObjectID != ""
}
