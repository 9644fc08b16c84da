// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "strings"

// Platform identifies a social network.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
)

// Brand owns templates and the credentials of its linked social accounts.
type Brand struct {
	ID             string               `json:"id"`
	UserID         string               `json:"userId,omitempty"`
	Name           string               `json:"name,omitempty"`
	Description    string               `json:"description,omitempty"`
	SocialAccounts []SocialAccountEntry `json:"socialAccounts,omitempty"`
}

// SocialAccountEntry pairs a platform with the credentials to post there.
// Platform is the discriminator for how Account is interpreted.
type SocialAccountEntry struct {
	Platform Platform           `json:"platform"`
	Account  AccountCredentials `json:"account"`
}

// AccountCredentials are the credentials stored for one platform account.
type AccountCredentials struct {
	AccessToken       string `json:"accessToken,omitempty"`
	PlatformAccountID string `json:"platformAccountId,omitempty"`
	Username          string `json:"username,omitempty"`
}

// IsEmpty reports whether no credential field is set.
func (a AccountCredentials) IsEmpty() bool {
	return a.AccessToken == "" && a.PlatformAccountID == "" && a.Username == ""
}

// AccountIdentifier returns the business account ID, falling back to the
// username.
func (a AccountCredentials) AccountIdentifier() string {
	if a.PlatformAccountID != "" {
		return a.PlatformAccountID
	}
	return a.Username
}

// InstagramReady reports whether the credentials can drive an Instagram post.
func (a AccountCredentials) InstagramReady() bool {
	return a.AccessToken != "" && a.AccountIdentifier() != ""
}

// ResolveAccounts maps the template's platform names onto the brand's stored
// credentials, in template order. Blank platform names and platforms without
// credentials are dropped.
func (b *Brand) ResolveAccounts(platforms []string) []SocialAccountEntry {
	var out []SocialAccountEntry
	for _, name := range platforms {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		var creds AccountCredentials
		if b != nil {
			for _, sa := range b.SocialAccounts {
				if string(sa.Platform) == name {
					creds = sa.Account
					break
				}
			}
		}
		if creds.IsEmpty() {
			continue
		}
		out = append(out, SocialAccountEntry{Platform: Platform(name), Account: creds})
	}
	return out
}
