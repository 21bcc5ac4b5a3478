// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package poll implements the readiness-caching adapter bridging
// would-block connections to a cooperative poll-based contract.
//
// A Source memoizes readiness observed from its reactor registration in
// two lock-free cells, one per direction, so steady-state polls cost a
// single atomic load. Readiness stays cached until an operation fails
// with ErrWouldBlock and the caller clears it, re-arming the wakeup
// path. Error and hangup observations are sticky for the adapter's
// lifetime and visible to both directions.
package poll
