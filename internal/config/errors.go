package config

import "errors"

// Validation errors returned when required configuration groups are
// incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid collaborator endpoints.
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates invalid remote store settings.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAppConfigs indicates missing identity provider settings.
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidRenderConfigs indicates invalid render settings.
	ErrInvalidRenderConfigs = errors.New("invalid render configuration")
)
