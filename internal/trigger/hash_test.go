// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

package trigger

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chirpcast/chirpcast/internal/models"
)

var hexHash = regexp.MustCompile(`^[0-9a-f]{40}$`)

func TestGenerateFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		hash := Generate()
		assert.Regexp(t, hexHash, hash)
	}
}

func TestGenerateUniqueness(t *testing.T) {
	const n = 10000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		seen[Generate()] = struct{}{}
	}
	require.Len(t, seen, n)
}

func TestEnsureHashAssignsOnce(t *testing.T) {
	trigger := &models.Trigger{}
	EnsureHash(trigger)
	require.Regexp(t, hexHash, trigger.Hash)

	first := trigger.Hash
	EnsureHash(trigger)
	assert.Equal(t, first, trigger.Hash)
}

func TestEnsureHashKeepsExisting(t *testing.T) {
	trigger := &models.Trigger{Hash: "preassigned"}
	EnsureHash(trigger)
	assert.Equal(t, "preassigned", trigger.Hash)
}
