// Package models holds the persisted account record and the values used to
// create, patch and expose it.
package models

import "time"

// Account is a stored user account. PasswordHash never leaves the store
// layer in a response: use Public before handing an account to a caller.
type Account struct {
	ID           string
	DisplayName  string
	Email        string
	PasswordHash string
	ExternalID   *string
	Age          *int
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Public returns the account without its password hash.
func (a *Account) Public() *PublicAccount {
	if a == nil {
		return nil
	}
	p := &PublicAccount{
		ID:          a.ID,
		DisplayName: a.DisplayName,
		Email:       a.Email,
		Age:         a.Age,
		Active:      a.Active,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if a.ExternalID != nil {
		id := *a.ExternalID
		p.ExternalID = &id
	}
	return p
}

// HasExternalID reports whether the account is linked to an external identity.
func (a *Account) HasExternalID() bool {
	return a != nil && a.ExternalID != nil && *a.ExternalID != ""
}

// PublicAccount is the caller-facing projection of an Account.
type PublicAccount struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"name"`
	Email       string    `json:"email"`
	ExternalID  *string   `json:"external_id,omitempty"`
	Age         *int      `json:"age,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AccountDraft is the input to a store create. Email must already be
// normalized and PasswordHash already computed.
type AccountDraft struct {
	DisplayName  string
	Email        string
	PasswordHash string
	ExternalID   *string
	Age          *int
	Active       bool
}

// AccountPatch is a partial update; nil fields are left untouched.
type AccountPatch struct {
	DisplayName  *string
	Email        *string
	PasswordHash *string
	ExternalID   *string
	Age          *int
	Active       *bool
}

// Empty reports whether the patch changes nothing.
func (p AccountPatch) Empty() bool {
	return p.DisplayName == nil && p.Email == nil && p.PasswordHash == nil &&
		p.ExternalID == nil && p.Age == nil && p.Active == nil
}

// Apply writes the non-nil fields of p onto a.
func (p AccountPatch) Apply(a *Account) {
	if p.DisplayName != nil {
		a.DisplayName = *p.DisplayName
	}
	if p.Email != nil {
		a.Email = *p.Email
	}
	if p.PasswordHash != nil {
		a.PasswordHash = *p.PasswordHash
	}
	if p.ExternalID != nil {
		id := *p.ExternalID
		a.ExternalID = &id
	}
	if p.Age != nil {
		age := *p.Age
		a.Age = &age
	}
	if p.Active != nil {
		a.Active = *p.Active
	}
}
