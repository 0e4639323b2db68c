// Bestskrellerz - Bestseller List Tracker and API
// Copyright 2026 The Bestskrellerz Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/virginiais4lovers/bestskrellerz

package database

import "errors"

// ErrConfiguration indicates the database cannot be opened because
// required configuration is missing (no MotherDuck token and no local
// path). Handlers map it to 503 so that the process can start, report
// the problem, and recover once the environment is fixed.
var ErrConfiguration = errors.New("database is not configured")

// ErrClosed indicates the DB has been closed and no further queries
// will be accepted.
var ErrClosed = errors.New("database is closed")
