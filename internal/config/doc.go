// Package config provides configuration loading, merging, and validation
// for the sprintboard client and the presence backend.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// The main entry points are [GetClientConfig] and [GetServerConfig].
package config
