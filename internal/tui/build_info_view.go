// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strconv"
	"strings"

	"github.com/sprintboard/sprintboard/models"
)

func renderBuildInfoWindow(info models.AppBuildInfo, renders uint64) string {
	var b strings.Builder

	b.WriteString("sprintboard\n")
	b.WriteString("Version: ")
	b.WriteString(valueOrNA(info.BuildVersion()))
	b.WriteString("\nDate:    ")
	b.WriteString(valueOrNA(info.BuildDate()))
	b.WriteString("\nCommit:  ")
	b.WriteString(valueOrNA(info.BuildCommit()))
	b.WriteString("\n\nFrames rendered: ")
	b.WriteString(strconv.FormatUint(renders, 10))

	return renderPage("ABOUT", b.String(), "esc: back")
}

func valueOrNA(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "N/A"
	}
	return v
}
