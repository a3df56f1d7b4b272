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
	"errors"
	"fmt"

	"github.com/Seagate/photofuse/common"
	"github.com/Seagate/photofuse/common/log"
	"github.com/Seagate/photofuse/internal"
	"github.com/Seagate/photofuse/internal/convertname"
)

// errListingStale : the album changed while its photos were being listed
var errListingStale = errors.New("album invalidated during listing")

// listingTicket : what a populate flight needs to know about the album before it lets go of the lock
type listingTicket struct {
	entry     *collectionEntry
	epoch     uint64
	remoteID  string
	populated bool
	pending   bool
}

// ensurePopulated : list the album's photos if the cache does not hold them.
// Listing runs outside cacheLock; the result is applied under the write lock
// only if the album was not invalidated meanwhile, otherwise the listing is repeated.
func (pc *PhotoCache) ensurePopulated(ctx context.Context, collection string) error {
	for attempt := 0; attempt < maxPrepareAttempts; attempt++ {
		ticket, found := withRead(&pc.cacheLock, func() listingTicketResult {
			return pc.ticket(collection)
		}).unpack()
		if !found {
			return fmt.Errorf("%w: album %q", common.ErrNotFound, collection)
		}
		if ticket.populated {
			return nil
		}

		_, err, _ := pc.populateFlight.Do(collection, func() (interface{}, error) {
			return nil, pc.populate(ctx, collection)
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, errListingStale) {
			return err
		}
		log.Debug("PhotoCache::ensurePopulated : %s invalidated during listing, listing again", collection)
	}
	return fmt.Errorf("%w: album %q kept changing while listing", common.ErrExhausted, collection)
}

type listingTicketResult struct {
	ticket listingTicket
	found  bool
}

func (r listingTicketResult) unpack() (listingTicket, bool) {
	return r.ticket, r.found
}

// ticket : caller holds cacheLock
func (pc *PhotoCache) ticket(collection string) listingTicketResult {
	c, found := pc.store.lookupCollection(collection)
	if !found {
		return listingTicketResult{}
	}
	return listingTicketResult{
		ticket: listingTicket{
			entry:     c,
			epoch:     c.epoch,
			remoteID:  c.remoteID,
			populated: c.populated(),
			pending:   c.pending(),
		},
		found: true,
	}
}

// populate : one listing of one album, run inside a singleflight
func (pc *PhotoCache) populate(ctx context.Context, collection string) error {
	ticket, found := withRead(&pc.cacheLock, func() listingTicketResult {
		return pc.ticket(collection)
	}).unpack()
	if !found {
		return fmt.Errorf("%w: album %q", common.ErrNotFound, collection)
	}
	if ticket.populated {
		// another flight got here first
		return nil
	}

	var fetched []internal.RemoteItem
	if !ticket.pending {
		var err error
		fetched, err = pc.listAllItems(ctx, ticket.remoteID)
		if err != nil {
			log.Err("PhotoCache::populate : failed to list photos of %s [%s]", collection, err)
			return err
		}
	}

	pc.cacheLock.Lock()
	defer pc.cacheLock.Unlock()

	c, found := pc.store.lookupCollection(collection)
	if !found || c != ticket.entry || c.epoch != ticket.epoch {
		return errListingStale
	}
	if c.populated() {
		return nil
	}
	pc.merge(c, fetched)
	return nil
}

// listAllItems : page through the album until a short page
func (pc *PhotoCache) listAllItems(ctx context.Context, collectionID string) ([]internal.RemoteItem, error) {
	var all []internal.RemoteItem
	perPage := int(pc.pageSize.Load())
	for page := 0; ; page++ {
		var batch []internal.RemoteItem
		err := pc.callRemote(ctx, "ListItems", func(ctx context.Context) error {
			var err error
			batch, err = pc.remote.ListItems(ctx, collectionID, page, perPage)
			return err
		})
		if err != nil {
			return nil, err
		}
		pc.stats.listItemPages.Inc()

		all = append(all, batch...)
		if len(batch) < perPage {
			return all, nil
		}
	}
}

// merge : fold a fresh listing into the album. Caller holds the write lock.
//
// A photo is keyed by its title. The remote id becomes the key when the title is
// empty or already used by a different photo. Dirty local photos stay as they are.
func (pc *PhotoCache) merge(c *collectionEntry, fetched []internal.RemoteItem) {
	evicted := c.evictClean()

	listed := 0
	for _, ri := range fetched {
		if ri.Missing {
			log.Debug("PhotoCache::merge : %s: photo %s is listed but gone, skipped", c.name, ri.ID)
			continue
		}
		listed++
		key := convertname.TitleToFileName(ri.Name)

		if existing, taken := c.items[key]; taken || key == "" {
			if taken && existing.remoteID == ri.ID {
				// same photo, seen already or held locally
				continue
			}
			if _, idTaken := c.items[ri.ID]; idTaken {
				// a different photo holds the title and the id key is used too
				log.Warn("PhotoCache::merge : %s: photo %s (%q) collides with an existing entry, skipped", c.name, ri.ID, ri.Name)
				continue
			}
			key = ri.ID
		}

		modTime, ok := common.ParseTaken(ri.TakenText)
		if !ok && ri.TakenText != "" {
			log.Debug("PhotoCache::merge : unparsable capture time %q for %s", ri.TakenText, ri.ID)
		}

		item := newItemEntry(key, ri.ID, ri.SourceURI, modTime)
		if old, found := evicted[ri.ID]; found {
			item.size = old.size
		}
		c.insertItem(item)
	}

	c.itemCount = listed
	c.markPopulated(pc.clock())
	pc.stats.populates.Inc()
	log.Debug("PhotoCache::merge : %s now holds %d photos (%d listed)", c.name, len(c.items), listed)
}
