package metadata

import (
	"strings"

	"github.com/feral-file/ff-chain-sync/internal/domain"
)

// defaultTokenKind is the kind of a token whose document declares no type
const defaultTokenKind = "image"

// Profile is an off-chain user profile, published by the dApps as a JSON document
// and referenced by order seller/buyer URIs and token creators
type Profile struct {
	DID         string
	Name        string
	Description string
	Avatar      string
}

// HasDID reports whether the profile is bound to a valid DID
func (p *Profile) HasDID() bool {
	return p != nil && domain.DID(p.DID).Valid()
}

// TokenMetadata is the projection of a token document stored on the token row
type TokenMetadata struct {
	Name        *string
	Description *string
	Image       *string
	Thumbnail   *string
	Kind        *string
	Adult       bool
	Properties  map[string]interface{}
	Creator     *Profile
}

// CollectionMetadata is the projection of a collection document stored on the collection row
type CollectionMetadata struct {
	Description *string
	Avatar      *string
	Background  *string
	Socials     map[string]interface{}
	Creator     *Profile
}

// NormalizeToken projects a token document.
// Version 2 documents nest the media under "data"; version 1 documents keep it at the top level.
func NormalizeToken(doc *Document) TokenMetadata {
	raw := doc.Raw
	data := object(raw, "data")

	meta := TokenMetadata{
		Name:        stringField(raw, "name"),
		Description: stringField(raw, "description"),
		Image:       firstString(stringField(data, "image"), stringField(raw, "image")),
		Thumbnail:   firstString(stringField(data, "thumbnail"), stringField(raw, "thumbnail")),
		Kind:        stringField(raw, "type"),
		Properties:  object(raw, "properties"),
		Creator:     profileObject(object(raw, "creator")),
	}
	if meta.Kind == nil {
		kind := defaultTokenKind
		meta.Kind = &kind
	}
	if adult, ok := raw["adult"].(bool); ok {
		meta.Adult = adult
	}

	return meta
}

// NormalizeCollection projects a collection document
func NormalizeCollection(doc *Document) CollectionMetadata {
	raw := doc.Raw
	data := object(raw, "data")

	return CollectionMetadata{
		Description: firstString(stringField(data, "description"), stringField(raw, "description")),
		Avatar:      firstString(stringField(data, "avatar"), stringField(raw, "avatar")),
		Background:  firstString(stringField(data, "background"), stringField(raw, "background")),
		Socials:     object(data, "social"),
		Creator:     profileObject(object(raw, "creator")),
	}
}

// NormalizeProfile projects a user profile document
func NormalizeProfile(doc *Document) *Profile {
	return profileObject(doc.Raw)
}

func profileObject(raw map[string]interface{}) *Profile {
	if raw == nil {
		return nil
	}
	p := &Profile{}
	if v := stringField(raw, "did"); v != nil {
		p.DID = *v
	}
	if v := stringField(raw, "name"); v != nil {
		p.Name = *v
	}
	if v := stringField(raw, "description"); v != nil {
		p.Description = *v
	}
	if v := stringField(raw, "avatar"); v != nil {
		p.Avatar = *v
	}
	return p
}

// stringField returns a non-blank string value of raw, or nil
func stringField(raw map[string]interface{}, key string) *string {
	if raw == nil {
		return nil
	}
	s, ok := raw[key].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func object(raw map[string]interface{}, key string) map[string]interface{} {
	if raw == nil {
		return nil
	}
	obj, _ := raw[key].(map[string]interface{})
	return obj
}

func firstString(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
