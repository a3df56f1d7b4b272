/*
   Licensed under the MIT License <http://opensource.org/licenses/MIT>.

   Copyright © 2023-2025 Seagate Technology LLC and/or its Affiliates
   Copyright © 2020-2025 Microsoft Corporation. All rights reserved.

   Permission is hereby granted, free of charge, to any person obtaining a copy
   of this software and associated documentation files (the "Software"), to deal
   in the Software without restriction, including without limitation the rights
   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
   copies of the Software, and to permit persons to whom the Software is
   furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in all
   copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
   SOFTWARE
*/

package photo_cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/Seagate/photofuse/common"
	"github.com/Seagate/photofuse/common/log"
)

// how many times an operation re-prepares after a sweep raced it
const maxPrepareAttempts = 3

func withRead[T any](l *sync.RWMutex, f func() T) T {
	l.RLock()
	defer l.RUnlock()
	return f()
}

func withWrite[T any](l *sync.RWMutex, f func() T) T {
	l.Lock()
	defer l.Unlock()
	return f()
}

// prepare : make the album listing current and populate the named albums.
// Remote listings run here, outside of cacheLock.
func (pc *PhotoCache) prepare(ctx context.Context, collections []string) error {
	if err := pc.ensureFresh(ctx); err != nil {
		return err
	}
	for _, name := range collections {
		if err := pc.ensurePopulated(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// ready : every named album exists and is populated. Caller holds cacheLock.
func (pc *PhotoCache) ready(collections []string) bool {
	for _, name := range collections {
		c, found := pc.store.lookupCollection(name)
		if !found || !c.populated() {
			return false
		}
	}
	return true
}

// readOp : prepare, then run f under the read lock.
// A sweep landing between the two sends us around again.
func (pc *PhotoCache) readOp(ctx context.Context, op string, collections []string, f func() error) error {
	for attempt := 0; attempt < maxPrepareAttempts; attempt++ {
		if err := pc.prepare(ctx, collections); err != nil {
			return err
		}

		done, err := withRead(&pc.cacheLock, func() lockResult {
			if !pc.ready(collections) {
				return lockResult{}
			}
			return lockResult{done: true, err: f()}
		}).unpack()
		if done {
			return err
		}
		log.Debug("PhotoCache::%s : albums %v invalidated while preparing, retrying", op, collections)
	}
	return fmt.Errorf("%w: %s gave up after %d attempts", common.ErrExhausted, op, maxPrepareAttempts)
}

// writeOp : prepare, then run f under the write lock.
// Remote calls made by f happen with the lock held so the store can only change to match their outcome.
func (pc *PhotoCache) writeOp(ctx context.Context, op string, collections []string, f func(ctx context.Context) error) error {
	for attempt := 0; attempt < maxPrepareAttempts; attempt++ {
		if err := pc.prepare(ctx, collections); err != nil {
			return err
		}

		done, err := withWrite(&pc.cacheLock, func() lockResult {
			if !pc.ready(collections) {
				return lockResult{}
			}
			return lockResult{done: true, err: f(ctx)}
		}).unpack()
		if done {
			return err
		}
		log.Debug("PhotoCache::%s : albums %v invalidated while preparing, retrying", op, collections)
	}
	return fmt.Errorf("%w: %s gave up after %d attempts", common.ErrExhausted, op, maxPrepareAttempts)
}

type lockResult struct {
	done bool
	err  error
}

func (r lockResult) unpack() (bool, error) {
	return r.done, r.err
}
