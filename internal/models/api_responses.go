// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by the
// JSON endpoints (trigger CRUD, auth, health). The webhook and stats
// endpoints intentionally bypass this wrapper: the webhook responds with the
// plain-text contract the feed monitor expects, and /stats responds with CSV.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - AUTHENTICATION_ERROR: Invalid/missing credentials
//   - NOT_FOUND: Resource doesn't exist
//   - STORAGE_ERROR: Persistence failure
//   - RATE_LIMIT_EXCEEDED: Too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// TriggerResponse is the body returned by trigger create/update, mirroring
// the original service's {"trigger_hash": ...} contract.
type TriggerResponse struct {
	TriggerHash string `json:"trigger_hash"`
}

// TriggerView is the read model returned when listing or fetching triggers.
// OAuth credentials never appear here.
type TriggerView struct {
	Hash      string    `json:"hash"`
	Tweet     string    `json:"tweet"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HealthStatus represents the health check response.
type HealthStatus struct {
	Status         string  `json:"status"`
	Version        string  `json:"version"`
	StoreConnected bool    `json:"store_connected"`
	Uptime         float64 `json:"uptime_seconds"`
}

// DeliveryStats mirrors the two global delivery counters exposed by /stats.
type DeliveryStats struct {
	TotalJobs   int64 `json:"total_jobs"`
	TotalErrors int64 `json:"total_errors"`
}
