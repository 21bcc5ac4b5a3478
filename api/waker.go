// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package api

// Waker wakes the task that parked on a pending poll. Implementations
// must be safe to call from the reactor goroutine and must tolerate
// spurious wakes.
type Waker interface {
	Wake()
}

// WakerFunc adapts a plain function to the Waker interface.
type WakerFunc func()

// Wake implements Waker.
func (f WakerFunc) Wake() { f() }
