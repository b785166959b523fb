// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

package models

import (
	"time"
)

// Trigger is a user-owned rule mapping an opaque public hash to a tweet
// template. The hash is assigned exactly once at creation and is stable
// across edits; it is the only identifier ever exposed outside the service.
//
// The Tweet field holds the template with zero or more placeholder tokens
// ({value}, {time}, {datastream}, {feed}, {feed_url}). An empty template is
// legal and turns delivery into a no-op.
//
// Delivery never mutates a Trigger: the engine reads Hash and Tweet, borrows
// the owner's OAuth credentials, and writes nothing back.
type Trigger struct {
	Hash      string    `json:"hash"`
	UserID    string    `json:"user_id"`
	Tweet     string    `json:"tweet"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasTemplate reports whether the trigger carries a non-empty tweet template.
// Triggers without a template are valid but deliver nothing.
func (t *Trigger) HasTemplate() bool {
	return t.Tweet != ""
}

// User represents a Twitter account holder. OAuthToken and OAuthSecret are
// the user's access credentials obtained through the three-legged OAuth
// flow; the delivery engine borrows them per call and never persists copies.
type User struct {
	ID          string    `json:"id"`
	TwitterName string    `json:"twitter_name"`
	OAuthToken  string    `json:"oauth_token"`
	OAuthSecret string    `json:"oauth_secret"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Credentials returns the user's OAuth token pair for a posting call.
func (u *User) Credentials() OAuthCredentials {
	return OAuthCredentials{Token: u.OAuthToken, Secret: u.OAuthSecret}
}

// OAuthCredentials is the per-user OAuth token pair handed to the posting
// capability for a single call.
type OAuthCredentials struct {
	Token  string
	Secret string
}

// Empty reports whether either half of the token pair is missing.
func (c OAuthCredentials) Empty() bool {
	return c.Token == "" || c.Secret == ""
}
