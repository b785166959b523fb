// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

package trigger

import (
	"errors"
	"fmt"
)

// Kind classifies a delivery failure.
type Kind string

const (
	// KindInvalidPayload marks a payload the engine could not parse or
	// extract the reading from. These failures are the caller's fault and
	// leave the error counter untouched.
	KindInvalidPayload Kind = "invalid_payload"

	// KindDeliveryFailed marks a failure after the payload was accepted:
	// the posting call or the render stage broke. Each such failure bumps
	// total_errors exactly once.
	KindDeliveryFailed Kind = "delivery_failed"
)

// DeliveryError is the typed failure returned by Deliver. Message is what
// the webhook handler echoes back to the monitoring service; for
// KindDeliveryFailed it carries the original raw payload body so the failed
// event is recoverable from the caller's logs.
type DeliveryError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// AsDeliveryError unwraps err into a *DeliveryError when it carries one.
func AsDeliveryError(err error) (*DeliveryError, bool) {
	var de *DeliveryError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

func invalidPayload(message string, err error) *DeliveryError {
	return &DeliveryError{Kind: KindInvalidPayload, Message: message, Err: err}
}

func deliveryFailed(rawBody []byte, err error) *DeliveryError {
	return &DeliveryError{Kind: KindDeliveryFailed, Message: string(rawBody), Err: err}
}
