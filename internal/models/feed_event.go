// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

package models

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// FeedEvent is the payload posted by the feed-monitoring service when a
// datastream condition fires. It is ephemeral: parsed once per delivery
// attempt and never persisted.
//
// Example body:
//
//	{
//	  "timestamp": "2021-05-01T12:00:00.000000Z",
//	  "triggering_datastream": {
//	    "id": "streamA",
//	    "value": {"current_value": "09120", "value": "09120"}
//	  },
//	  "environment": {"id": 504}
//	}
type FeedEvent struct {
	Timestamp  string          `json:"timestamp"`
	Datastream FeedDatastream  `json:"triggering_datastream"`
	Feed       FeedEnvironment `json:"environment"`
}

// FeedDatastream identifies the datastream whose reading fired the trigger.
type FeedDatastream struct {
	ID    FlexString `json:"id"`
	Value FeedValue  `json:"value"`
}

// FeedValue carries the sensor reading. The monitoring service historically
// sent the reading under "value"; newer payloads use "current_value". Both
// are accepted, with current_value taking precedence.
type FeedValue struct {
	CurrentValue FlexString `json:"current_value"`
	Value        FlexString `json:"value"`
}

// FeedEnvironment identifies the feed (environment) the datastream belongs
// to. The id arrives as a JSON number but is treated as a string everywhere.
type FeedEnvironment struct {
	ID FlexString `json:"id"`
}

// FlexString is a string that also accepts JSON numbers on the wire.
// Feed ids are numeric, sensor values may be either form.
type FlexString string

// UnmarshalJSON accepts a JSON string, number, or null.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("value is neither string nor number: %w", err)
	}
	// Integer-valued floats render without a trailing ".0", matching the
	// string form the monitoring service uses elsewhere.
	if i, err := num.Int64(); err == nil {
		*s = FlexString(strconv.FormatInt(i, 10))
		return nil
	}
	*s = FlexString(num.String())
	return nil
}

// String returns the underlying string value.
func (s FlexString) String() string {
	return string(s)
}
