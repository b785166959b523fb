// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

/*
Package models defines data structures for the Chirpcast application.

This package contains all data models used throughout the application:
persisted records (Trigger, User), the ephemeral feed-event payload received
on the webhook endpoint, and API request/response structures. It serves as
the single source of truth for data structure definitions.

Key Components:

  - Trigger: User-owned tweet template addressed by an opaque hash
  - User: Twitter account holder with per-user OAuth credentials
  - FeedEvent: Ephemeral sensor-reading payload posted by the feed monitor
  - APIResponse: Standardized API response wrapper

Persisted records are stored as JSON in BadgerDB; FeedEvent exists only for
the duration of a single delivery attempt and is never written to disk.
*/
package models
