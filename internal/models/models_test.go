// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

package models

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestFeedEventUnmarshal(t *testing.T) {
	t.Parallel()

	body := []byte(`{
		"timestamp": "2021-05-01T12:00:00.000000Z",
		"triggering_datastream": {
			"id": "streamA",
			"value": {"current_value": "09120", "value": "09100"}
		},
		"environment": {"id": 504}
	}`)

	var event FeedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		t.Fatalf("unmarshal feed event: %v", err)
	}

	if event.Datastream.ID.String() != "streamA" {
		t.Errorf("datastream id = %q, want streamA", event.Datastream.ID)
	}
	if event.Datastream.Value.CurrentValue.String() != "09120" {
		t.Errorf("current_value = %q, want 09120", event.Datastream.Value.CurrentValue)
	}
	if event.Feed.ID.String() != "504" {
		t.Errorf("feed id = %q, want 504 (number coerced to string)", event.Feed.ID)
	}
}

func TestFlexStringForms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"string", `"42.5"`, "42.5"},
		{"integer", `504`, "504"},
		{"float", `21.75`, "21.75"},
		{"null", `null`, ""},
		{"numeric string preserves leading zero", `"09120"`, "09120"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s FlexString
			if err := json.Unmarshal([]byte(tt.in), &s); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.in, err)
			}
			if s.String() != tt.want {
				t.Errorf("got %q, want %q", s, tt.want)
			}
		})
	}
}

func TestFlexStringRejectsObjects(t *testing.T) {
	t.Parallel()

	var s FlexString
	if err := json.Unmarshal([]byte(`{"nested": true}`), &s); err == nil {
		t.Error("expected error for object value")
	}
}

func TestTriggerHasTemplate(t *testing.T) {
	t.Parallel()

	trigger := &Trigger{Hash: "abc", Tweet: ""}
	if trigger.HasTemplate() {
		t.Error("empty template should report HasTemplate() == false")
	}

	trigger.Tweet = "{value} at {time}"
	if !trigger.HasTemplate() {
		t.Error("non-empty template should report HasTemplate() == true")
	}
}

func TestOAuthCredentialsEmpty(t *testing.T) {
	t.Parallel()

	if !(OAuthCredentials{}).Empty() {
		t.Error("zero credentials should be empty")
	}
	if !(OAuthCredentials{Token: "tok"}).Empty() {
		t.Error("missing secret should be empty")
	}
	if (OAuthCredentials{Token: "tok", Secret: "sec"}).Empty() {
		t.Error("full pair should not be empty")
	}
}
