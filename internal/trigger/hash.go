// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

package trigger

import (
	"crypto/sha1"
	"encoding/hex"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/chirpcast/chirpcast/internal/models"
)

// Generate returns a new opaque trigger hash: 40 lowercase hex characters.
//
// The hash is derived from the microsecond-precision clock plus a random
// integer, so two triggers created in the same instant still diverge. It is
// an identifier, not a secret key; unguessability beyond URL obscurity is
// not a goal.
func Generate() string {
	seed := strconv.FormatInt(time.Now().UnixMicro(), 10) +
		strconv.FormatUint(rand.Uint64(), 10)
	sum := sha1.Sum([]byte(seed))
	return hex.EncodeToString(sum[:])
}

// EnsureHash assigns a hash to the trigger if it does not have one yet.
// A trigger that already carries a hash is left untouched; the hash is
// assigned exactly once and stays stable for the trigger's lifetime.
func EnsureHash(t *models.Trigger) {
	if t.Hash == "" {
		t.Hash = Generate()
	}
}
