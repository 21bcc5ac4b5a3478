// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import "sync/atomic"

// Waker counts wake calls.
type Waker struct {
	n atomic.Int64
}

// Wake implements api.Waker.
func (w *Waker) Wake() { w.n.Add(1) }

// Woken returns the number of wakes observed so far.
func (w *Waker) Woken() int { return int(w.n.Load()) }

// Reset zeroes the wake count.
func (w *Waker) Reset() { w.n.Store(0) }
