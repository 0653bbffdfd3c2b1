// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package services

import (
	"context"
)

// CatalogRefresher matches the catalog package's background refreshers.
//
// Satisfied by *catalog.Runner (remote polling) and *catalog.Watcher
// (file change detection), both of which already serve until their
// context is canceled.
type CatalogRefresher interface {
	Serve(ctx context.Context) error
}

// CatalogRefreshService names a catalog refresher for supervision.
// Supervisor logs distinguish the poller from the watcher through the
// service name, not the type.
type CatalogRefreshService struct {
	refresher CatalogRefresher
	name      string
}

// NewCatalogPollerService wraps the remote catalog poller.
// The poller fetches the catalog document on an interval and swaps the
// store when the upstream ETag changes.
func NewCatalogPollerService(runner CatalogRefresher) *CatalogRefreshService {
	return &CatalogRefreshService{refresher: runner, name: "catalog-poller"}
}

// NewCatalogWatcherService wraps the catalog file watcher.
// The watcher reloads the catalog document when the file on disk changes.
func NewCatalogWatcherService(watcher CatalogRefresher) *CatalogRefreshService {
	return &CatalogRefreshService{refresher: watcher, name: "catalog-watcher"}
}

// Serve implements suture.Service by delegating to the refresher.
func (s *CatalogRefreshService) Serve(ctx context.Context) error {
	return s.refresher.Serve(ctx)
}

// String implements fmt.Stringer for logging.
// Suture uses this to identify the service in log messages.
func (s *CatalogRefreshService) String() string {
	return s.name
}
