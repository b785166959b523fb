// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tweetRequest struct {
	Tweet string `validate:"max=280"`
}

type hashRequest struct {
	Hash string `validate:"required,trigger_hash"`
}

func TestValidateStructTweetLength(t *testing.T) {
	assert.Nil(t, ValidateStruct(&tweetRequest{Tweet: "short"}))
	assert.Nil(t, ValidateStruct(&tweetRequest{Tweet: ""}))
	assert.Nil(t, ValidateStruct(&tweetRequest{Tweet: strings.Repeat("x", 280)}))

	verr := ValidateStruct(&tweetRequest{Tweet: strings.Repeat("x", 281)})
	require.NotNil(t, verr)
	assert.Contains(t, verr.Error(), "at most 280")
}

func TestValidateStructTriggerHash(t *testing.T) {
	assert.Nil(t, ValidateStruct(&hashRequest{Hash: strings.Repeat("a0", 20)}))

	tests := []string{
		"",
		"short",
		strings.Repeat("g", 40),
		strings.Repeat("A", 40),
		strings.Repeat("a", 41),
	}
	for _, hash := range tests {
		verr := ValidateStruct(&hashRequest{Hash: hash})
		assert.NotNil(t, verr, "hash %q should fail", hash)
	}
}

func TestValidateStructCollectsAllErrors(t *testing.T) {
	type combined struct {
		Hash  string `validate:"required,trigger_hash"`
		Tweet string `validate:"max=280"`
	}

	verr := ValidateStruct(&combined{Hash: "nope", Tweet: strings.Repeat("x", 300)})
	require.NotNil(t, verr)
	assert.Len(t, verr.Errors(), 2)
	assert.Contains(t, verr.Error(), ";")
}

func TestIsTriggerHash(t *testing.T) {
	assert.True(t, IsTriggerHash("ab0873bb6e418b95b2b3ab2a8102b1d078f09e47"))
	assert.False(t, IsTriggerHash("ab0873"))
	assert.False(t, IsTriggerHash("AB0873BB6E418B95B2B3AB2A8102B1D078F09E47"))
	assert.False(t, IsTriggerHash(""))
}

func TestGetValidatorSingleton(t *testing.T) {
	assert.Same(t, GetValidator(), GetValidator())
}
