// Package alert holds the emergency broadcast domain: messages, query state,
// pagination math and the presentation helpers used for copy/share.
package alert

import (
	"fmt"
	"strings"
)

// LocationSeparator joins region names both on the wire and in share text.
const LocationSeparator = ","

// Message is a single emergency broadcast record.
type Message struct {
	// ID is source-assigned and may be empty; see Key.
	ID        string   `json:"id,omitempty"`
	Index     int      `json:"index"`
	Text      string   `json:"text"`
	Locations []string `json:"locations"`
	SentAt    string   `json:"sent_at"`
}

// Key identifies the message within the current result list. Without an
// upstream ID the list position is the only stable identifier.
func (m Message) Key() string {
	if m.ID != "" {
		return m.ID
	}
	return fmt.Sprintf("#%d", m.Index)
}

// LocationString returns the locations joined the way the upstream sends them.
func (m Message) LocationString() string {
	return strings.Join(m.Locations, LocationSeparator)
}

// Page is the result of one fetch.
type Page struct {
	Messages   []Message
	TotalPages int
}

// SplitLocations splits a comma-joined location_name value. An empty value
// yields no locations.
func SplitLocations(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, LocationSeparator)
}

// UniqueLocations drops repeated region names, keeping the first occurrence
// and its position.
func UniqueLocations(locations []string) []string {
	if locations == nil {
		return nil
	}
	seen := make(map[string]bool, len(locations))
	result := make([]string, 0, len(locations))
	for _, loc := range locations {
		if seen[loc] {
			continue
		}
		seen[loc] = true
		result = append(result, loc)
	}
	return result
}

// DedupeLocations is UniqueLocations over the comma-joined wire form.
func DedupeLocations(raw string) string {
	return strings.Join(UniqueLocations(SplitLocations(raw)), LocationSeparator)
}

// Normalize returns a copy of msgs with deduplicated locations and list
// positions assigned. The input slice is not modified.
func Normalize(msgs []Message) []Message {
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		m.Index = i
		m.Locations = UniqueLocations(m.Locations)
		out[i] = m
	}
	return out
}
