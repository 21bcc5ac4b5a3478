// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor provides the edge-triggered event loop that feeds
// readiness into poll sources: epoll on Linux, a stub elsewhere.
package reactor
