// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

// Package trigger implements the delivery engine: it renders a user's tweet
// template against an incoming feed-event payload and posts the result
// through the owner's Twitter credentials, keeping the global delivery
// counters.
package trigger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/chirpcast/chirpcast/internal/counter"
	"github.com/chirpcast/chirpcast/internal/logging"
	"github.com/chirpcast/chirpcast/internal/metrics"
	"github.com/chirpcast/chirpcast/internal/models"
)

// DefaultFeedBaseURL is the feed platform base used to build {feed_url}
// when none is configured.
const DefaultFeedBaseURL = "https://cosm.com"

// renderedTimeLayout is how {time} appears in tweets.
const renderedTimeLayout = "2006-01-02 15:04:05"

// Poster posts a rendered status on behalf of a user. Implemented by the
// twitter package; tests substitute fakes.
type Poster interface {
	PostStatus(ctx context.Context, creds models.OAuthCredentials, status string) error
}

// Outcome reports what a Deliver call did. Posted is false for the empty-
// template no-op; Tweet carries the rendered text when a status went out.
type Outcome struct {
	Posted bool
	Tweet  string
}

// Engine turns feed events into tweets. It is stateless apart from its
// injected collaborators and safe for concurrent use.
type Engine struct {
	poster      Poster
	counters    counter.Store
	feedBaseURL string
}

// NewEngine builds a delivery engine. feedBaseURL may be empty, in which
// case DefaultFeedBaseURL is used.
func NewEngine(poster Poster, counters counter.Store, feedBaseURL string) *Engine {
	if feedBaseURL == "" {
		feedBaseURL = DefaultFeedBaseURL
	}
	return &Engine{
		poster:      poster,
		counters:    counters,
		feedBaseURL: strings.TrimRight(feedBaseURL, "/"),
	}
}

// Deliver runs one delivery attempt: no-op guard, parse, extract, render,
// post, count. The steps are strictly sequential and there are no retries.
//
// A trigger without a template is a successful no-op: nothing is posted and
// no counter moves. A payload that cannot be parsed or that lacks the
// reading returns a *DeliveryError of KindInvalidPayload without touching
// the counters. Once the payload is accepted, any failure to render or post
// bumps total_errors exactly once and returns KindDeliveryFailed with the
// raw payload in the message; success bumps total_jobs.
//
// Deliver never mutates the trigger and never persists the payload.
func (e *Engine) Deliver(ctx context.Context, trigger *models.Trigger, creds models.OAuthCredentials, rawBody []byte) (Outcome, error) {
	if !trigger.HasTemplate() {
		logging.Ctx(ctx).Debug().
			Str("trigger_hash", trigger.Hash).
			Msg("Trigger has no template, skipping delivery")
		metrics.RecordDelivery(metrics.DeliveryNoop)
		return Outcome{}, nil
	}

	var event models.FeedEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		metrics.RecordDelivery(metrics.DeliveryInvalid)
		return Outcome{}, invalidPayload("malformed payload", err)
	}

	fields, derr := e.extract(&event)
	if derr != nil {
		metrics.RecordDelivery(metrics.DeliveryInvalid)
		return Outcome{}, derr
	}

	status := e.render(trigger.Tweet, fields)

	if creds.Empty() {
		return Outcome{}, e.failed(ctx, rawBody, fmt.Errorf("owner has no twitter credentials"))
	}

	if err := e.poster.PostStatus(ctx, creds, status); err != nil {
		return Outcome{}, e.failed(ctx, rawBody, err)
	}

	if err := e.counters.Increment(ctx, counter.TotalJobs); err != nil {
		// The tweet already went out; a counter hiccup must not turn the
		// delivery into a reported failure.
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to increment job counter")
	}
	metrics.RecordDelivery(metrics.DeliveryPosted)

	logging.Ctx(ctx).Info().
		Str("trigger_hash", trigger.Hash).
		Int("tweet_length", len(status)).
		Msg("Delivered trigger")
	return Outcome{Posted: true, Tweet: status}, nil
}

// failed records one delivery failure: total_errors moves exactly once per
// accepted-but-undeliverable payload.
func (e *Engine) failed(ctx context.Context, rawBody []byte, cause error) *DeliveryError {
	if err := e.counters.Increment(ctx, counter.TotalErrors); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to increment error counter")
	}
	metrics.RecordDelivery(metrics.DeliveryFailed)
	logging.Ctx(ctx).Error().Err(cause).Msg("Trigger delivery failed")
	return deliveryFailed(rawBody, cause)
}

// renderFields are the token values substituted into a template.
type renderFields struct {
	value      string
	time       string
	datastream string
	feed       string
}

// extract pulls the token values out of a parsed feed event. The reading
// and timestamp are required; datastream and feed ids substitute as empty
// strings when absent.
func (e *Engine) extract(event *models.FeedEvent) (renderFields, *DeliveryError) {
	value := event.Datastream.Value.CurrentValue.String()
	if value == "" {
		value = event.Datastream.Value.Value.String()
	}
	if value == "" {
		return renderFields{}, invalidPayload("payload carries no datastream value", nil)
	}

	if event.Timestamp == "" {
		return renderFields{}, invalidPayload("payload carries no timestamp", nil)
	}
	ts, err := parseEventTime(event.Timestamp)
	if err != nil {
		return renderFields{}, invalidPayload("unparseable timestamp", err)
	}

	return renderFields{
		value:      value,
		time:       ts.Format(renderedTimeLayout),
		datastream: event.Datastream.ID.String(),
		feed:       event.Feed.ID.String(),
	}, nil
}

// render substitutes every recognized token in a single pass. Replacement
// text is never re-scanned, so a sensor value containing "{value}" stays
// literal, and unrecognized {...} tokens pass through untouched.
func (e *Engine) render(template string, fields renderFields) string {
	return strings.NewReplacer(
		"{value}", fields.value,
		"{time}", fields.time,
		"{datastream}", fields.datastream,
		"{feed}", fields.feed,
		"{feed_url}", e.feedBaseURL+"/feeds/"+fields.feed,
	).Replace(template)
}

// eventTimeLayouts are accepted on the wire, tried in order. The monitoring
// service sends RFC 3339 with microsecond precision; the rest keep older
// senders working.
var eventTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
}

func parseEventTime(raw string) (time.Time, error) {
	for _, layout := range eventTimeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp %q matches no accepted layout", raw)
}
