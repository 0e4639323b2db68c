// Bestskrellerz - Bestseller List Tracker and API
// Copyright 2026 The Bestskrellerz Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/virginiais4lovers/bestskrellerz

/*
Package config provides layered configuration management for Bestskrellerz.

Configuration is loaded with Koanf v2 from three sources in increasing
order of precedence:

 1. Built-in defaults (see defaultConfig)
 2. An optional YAML config file (config.yaml, or CONFIG_PATH)
 3. Environment variables (MOTHERDUCK_TOKEN, HTTP_PORT, LOG_LEVEL, ...)

A .env file in the working directory is honored for local development,
matching the behavior of the ingestion CLI that feeds the same database.

Typical usage:

	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

The resulting Config is immutable and safe for concurrent reads.
*/
package config
