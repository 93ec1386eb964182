// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net/url"
)

// validate checks settings shared by every binary.
func (cfg *StructuredConfig) validate() error {
	if cfg.Render.FrameInterval < 0 {
		return fmt.Errorf("%w: negative frame interval", ErrInvalidRenderConfigs)
	}
	if cfg.Adapter.CalendarRateLimit < 0 {
		return fmt.Errorf("%w: negative calendar rate limit", ErrInvalidAdapterConfigs)
	}
	return nil
}

// validate checks that the client has everything it needs to start. Demo
// mode runs against in-memory collaborators and needs no remote endpoints.
func (cfg *ClientConfig) validate() error {
	if cfg.Storage.Workspace == "" {
		return fmt.Errorf("%w: workspace is required", ErrInvalidStorageConfigs)
	}

	if cfg.App.Demo {
		return nil
	}

	if cfg.Storage.ProjectID == "" {
		return fmt.Errorf("%w: firestore project id is required", ErrInvalidStorageConfigs)
	}

	if cfg.Adapter.PresenceURL == "" {
		return fmt.Errorf("%w: presence url is required", ErrInvalidAdapterConfigs)
	}
	u, err := url.Parse(cfg.Adapter.PresenceURL)
	if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
		return fmt.Errorf("%w: presence url must be ws:// or wss://", ErrInvalidAdapterConfigs)
	}

	if cfg.App.IdentityAPIKey == "" || cfg.App.IdentityURL == "" || cfg.App.TokenURL == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}
