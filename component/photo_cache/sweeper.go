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
	"time"

	"github.com/Seagate/photofuse/common"
	"github.com/Seagate/photofuse/common/log"
	"github.com/Seagate/photofuse/internal"
	"github.com/Seagate/photofuse/internal/convertname"
)

// stale : the album listing is older than the TTL. Caller holds cacheLock.
func (pc *PhotoCache) stale(now time.Time) bool {
	return pc.store.lastRefresh.IsZero() || now.Sub(pc.store.lastRefresh) >= pc.cacheTimeout
}

// ensureFresh : sweep the store and fetch the album listing when the TTL expired.
// Concurrent callers share one fetch. The listing is fetched without holding cacheLock
// and applied under the write lock, after checking nobody else already did.
func (pc *PhotoCache) ensureFresh(ctx context.Context) error {
	if !withRead(&pc.cacheLock, func() bool { return pc.stale(pc.clock()) }) {
		return nil
	}

	_, err, shared := pc.sweepFlight.Do("sweep", func() (interface{}, error) {
		// a flight that finished just before this one started may have refreshed already
		if !withRead(&pc.cacheLock, func() bool { return pc.stale(pc.clock()) }) {
			return nil, nil
		}

		var remote []internal.RemoteCollection
		err := pc.callRemote(ctx, "ListCollections", func(ctx context.Context) error {
			var err error
			remote, err = pc.remote.ListCollections(ctx)
			return err
		})
		if err != nil {
			log.Err("PhotoCache::ensureFresh : failed to list albums [%s]", err)
			return nil, err
		}
		pc.stats.listCollections.Inc()

		pc.cacheLock.Lock()
		defer pc.cacheLock.Unlock()
		now := pc.clock()
		if !pc.stale(now) {
			return nil, nil
		}
		pc.sweep(remote, now)
		return nil, nil
	})
	if shared {
		log.Debug("PhotoCache::ensureFresh : joined an in-flight album listing")
	}
	return err
}

// sweep : evict clean entries and fold in the album listing. Caller holds the write lock.
func (pc *PhotoCache) sweep(remote []internal.RemoteCollection, now time.Time) {
	evictedItems, evictedCollections := 0, 0

	for name, c := range pc.store.collections {
		before := len(c.items)
		c.evictClean()
		evictedItems += before - len(c.items)

		if c.evictable() && name != common.UncategorizedName {
			pc.store.removeCollection(name)
			evictedCollections++
			continue
		}

		// a pending album has nothing remote to list
		if !c.pending() {
			c.invalidate()
		}
	}

	if _, found := pc.store.lookupCollection(common.UncategorizedName); !found {
		pc.store.insertCollection(newCollectionEntry(common.UncategorizedName, "", 0))
	}

	byID := make(map[string]*collectionEntry, len(pc.store.collections))
	for _, c := range pc.store.collections {
		if c.remoteID != "" {
			byID[c.remoteID] = c
		}
	}

	added := 0
	for _, rc := range remote {
		if rc.ID == "" {
			continue
		}
		if c, known := byID[rc.ID]; known {
			c.itemCount = rc.ItemCount
			continue
		}
		key := convertname.TitleToFileName(rc.Name)
		if _, taken := pc.store.lookupCollection(key); taken || key == common.UncategorizedName {
			log.Debug("PhotoCache::sweep : album title %q unusable, keyed by id %s", rc.Name, rc.ID)
			key = rc.ID
		}
		c := newCollectionEntry(key, rc.ID, rc.ItemCount)
		if !pc.store.insertCollection(c) {
			log.Warn("PhotoCache::sweep : album %s (%s) collides with an existing key, skipped", rc.Name, rc.ID)
			continue
		}
		byID[rc.ID] = c
		added++
	}

	pc.store.lastRefresh = now
	pc.stats.sweeps.Inc()
	log.Debug("PhotoCache::sweep : evicted %d photos %d albums, added %d albums", evictedItems, evictedCollections, added)
}
