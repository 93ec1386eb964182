// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the interactive board client.
//
// It signs the user in, connects the presence transport, runs one
// session.State against the configured backend (Cloud Firestore or the
// seeded in-memory demo) and hands every rendered frame to the terminal UI.
// Background workers such as the calendar refresh run for as long as the
// board is open.
package client
