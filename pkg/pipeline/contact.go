package pipeline

import "time"

// Contact is a person associated with exactly one prospect. Contacts
// with a usable email are deduplicated per prospect on that email;
// contacts without one are always inserted as new rows.
type Contact struct {
	ID         string `json:"id"`
	ProspectID string `json:"prospect_id"`

	Name  string      `json:"name"`
	Title string      `json:"title,omitempty"`
	Role  ContactRole `json:"role,omitempty"`

	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`

	IsPrimary bool   `json:"is_primary"`
	Notes     string `json:"notes,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// ContactPatch carries incoming contact fields for a merge. Nil fields
// never overwrite stored data.
type ContactPatch struct {
	Name        *string
	Title       *string
	Role        *ContactRole
	Email       *string
	Phone       *string
	LinkedInURL *string
	IsPrimary   *bool
	Notes       *string
}

// Apply merges the patch into c, overwriting only fields the patch carries.
func (patch *ContactPatch) Apply(c *Contact) {
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Title != nil {
		c.Title = *patch.Title
	}
	if patch.Role != nil {
		c.Role = *patch.Role
	}
	if patch.Email != nil {
		c.Email = *patch.Email
	}
	if patch.Phone != nil {
		c.Phone = *patch.Phone
	}
	if patch.LinkedInURL != nil {
		c.LinkedInURL = *patch.LinkedInURL
	}
	if patch.IsPrimary != nil {
		c.IsPrimary = *patch.IsPrimary
	}
	if patch.Notes != nil {
		c.Notes = *patch.Notes
	}
}

// Deleted reports whether the contact has been soft-deleted.
func (c *Contact) Deleted() bool { return c.DeletedAt != nil }
