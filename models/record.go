// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"time"
)

// Record is one remote document as mirrored on the client.
//
// Identity is the backend-assigned ID; two records with the same ID describe
// the same document regardless of their field values.
type Record struct {
	// ID is the backend-assigned document identifier (last path segment).
	ID string `json:"id"`

	// Path is the full slash-separated document path, e.g. "tasks/abc".
	Path string `json:"path"`

	// Fields holds the document body as delivered by the backend.
	Fields map[string]any `json:"fields"`

	// UpdateTime is the backend commit time of the last write, when known.
	UpdateTime time.Time `json:"update_time"`
}

// String returns the string field name or "" when it is absent or not a string.
func (r Record) String(name string) string {
	v, ok := r.Fields[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Int returns the integer field name. Firestore delivers integers as int64
// and JSON sources deliver float64; both are accepted.
func (r Record) Int(name string) int64 {
	switch v := r.Fields[name].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// Time returns the timestamp field name or the zero time.
func (r Record) Time(name string) time.Time {
	switch v := r.Fields[name].(type) {
	case time.Time:
		return v
	case string:
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}
		}
		return t
	default:
		return time.Time{}
	}
}

// Filter is a single "field op value" clause of a [Query].
type Filter struct {
	Field string
	Op    string
	Value any
}

// Query selects the documents of one collection that a subscription mirrors.
type Query struct {
	// Collection is the collection path, e.g. "tasks".
	Collection string

	// Filters are ANDed together.
	Filters []Filter

	// OrderBy is an optional field to order the result set by.
	OrderBy string
}

// Where returns a copy of q with an additional filter clause.
func (q Query) Where(field, op string, value any) Query {
	filters := make([]Filter, 0, len(q.Filters)+1)
	filters = append(filters, q.Filters...)
	q.Filters = append(filters, Filter{Field: field, Op: op, Value: value})
	return q
}

type serverTimestamp struct{}

// ServerTimestamp is a sentinel field value. Writers replace it with the
// backend commit time.
var ServerTimestamp = serverTimestamp{}

// Patch is one point write inside a batched update.
type Patch struct {
	// Path is the document path to write, e.g. "tasks/abc".
	Path string

	// Fields are merged into the existing document.
	Fields map[string]any
}
