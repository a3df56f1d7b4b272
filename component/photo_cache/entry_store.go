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
	"sort"
	"time"

	"github.com/Seagate/photofuse/common"
	"github.com/Seagate/photofuse/common/log"
	"github.com/Seagate/photofuse/internal"
)

// Flags represented in BitMap for albums and photos in the cache
const (
	EntryFlagUnknown uint16 = iota
	// local change not yet confirmed by the photo service
	EntryFlagDirty
	// album only: the photo map reflects the remote listing
	EntryFlagPopulated
)

// itemEntry : one photo
type itemEntry struct {
	name      string
	remoteID  string
	sourceURI string
	modTime   time.Time
	size      int64
	// uploaded but not yet attached to its album, reused on retry
	stagedID string
	flags    common.BitMap16
}

// collectionEntry : one album and the photos keyed under it
type collectionEntry struct {
	name        string
	remoteID    string
	itemCount   int
	populatedAt time.Time
	// bumped on every invalidation so an in-flight listing can tell it went stale
	epoch uint64
	flags common.BitMap16
	items map[string]*itemEntry
}

// entryStore : album name -> album -> photo name -> photo.
// Callers hold PhotoCache.cacheLock. Nothing in here leaves the lock without being copied.
type entryStore struct {
	collections map[string]*collectionEntry
	lastRefresh time.Time
}

func newEntryStore() *entryStore {
	return &entryStore{
		collections: make(map[string]*collectionEntry),
	}
}

func newCollectionEntry(name string, remoteID string, itemCount int) *collectionEntry {
	return &collectionEntry{
		name:      name,
		remoteID:  remoteID,
		itemCount: itemCount,
		items:     make(map[string]*itemEntry),
	}
}

func newItemEntry(name string, remoteID string, sourceURI string, modTime time.Time) *itemEntry {
	return &itemEntry{
		name:      name,
		remoteID:  remoteID,
		sourceURI: sourceURI,
		modTime:   modTime,
		size:      common.SizeUnknown,
	}
}

func (s *entryStore) lookupCollection(name string) (*collectionEntry, bool) {
	c, found := s.collections[name]
	return c, found
}

func (s *entryStore) lookupItem(collection string, name string) (*itemEntry, bool) {
	c, found := s.collections[collection]
	if !found {
		return nil, false
	}
	item, found := c.items[name]
	return item, found
}

// insertCollection : add c under its name, refusing to replace an existing album
func (s *entryStore) insertCollection(c *collectionEntry) bool {
	if _, exists := s.collections[c.name]; exists {
		return false
	}
	s.collections[c.name] = c
	return true
}

// insertItem : add item to the album, refusing to replace an existing photo
func (s *entryStore) insertItem(collection string, item *itemEntry) bool {
	c, found := s.collections[collection]
	if !found {
		log.Warn("PhotoCache::insertItem : album %s not in cache", collection)
		return false
	}
	return c.insertItem(item)
}

func (s *entryStore) removeCollection(name string) {
	delete(s.collections, name)
}

func (s *entryStore) removeItem(collection string, name string) *itemEntry {
	c, found := s.collections[collection]
	if !found {
		return nil
	}
	item, found := c.items[name]
	if !found {
		return nil
	}
	delete(c.items, name)
	return item
}

// rekeyCollection : move the album under a new name, fails if the new name is taken
func (s *entryStore) rekeyCollection(oldName string, newName string) bool {
	c, found := s.collections[oldName]
	if !found {
		return false
	}
	if _, taken := s.collections[newName]; taken {
		return false
	}
	delete(s.collections, oldName)
	c.name = newName
	s.collections[newName] = c
	return true
}

// collectionNames : sorted album names, without the uncategorized album
func (s *entryStore) collectionNames() []string {
	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		if name == common.UncategorizedName {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *collectionEntry) insertItem(item *itemEntry) bool {
	if _, exists := c.items[item.name]; exists {
		return false
	}
	c.items[item.name] = item
	return true
}

func (c *collectionEntry) rekeyItem(oldName string, newName string) bool {
	item, found := c.items[oldName]
	if !found {
		return false
	}
	if _, taken := c.items[newName]; taken {
		return false
	}
	delete(c.items, oldName)
	item.name = newName
	c.items[newName] = item
	return true
}

func (c *collectionEntry) itemNames() []string {
	names := make([]string, 0, len(c.items))
	for name := range c.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *collectionEntry) populated() bool {
	return c.flags.IsSet(EntryFlagPopulated)
}

func (c *collectionEntry) markPopulated(at time.Time) {
	c.flags.Set(EntryFlagPopulated)
	c.populatedAt = at
}

// invalidate : the next access refetches the photo listing
func (c *collectionEntry) invalidate() {
	c.flags.Clear(EntryFlagPopulated)
	c.epoch++
}

func (c *collectionEntry) toMetadata() internal.Metadata {
	return internal.Metadata{
		Name:         c.name,
		RemoteID:     c.remoteID,
		ModTime:      c.populatedAt,
		Size:         common.SizeUnknown,
		Dirty:        c.dirty(),
		IsCollection: true,
		ItemCount:    c.itemCount,
	}
}

func (item *itemEntry) toMetadata() internal.Metadata {
	return internal.Metadata{
		Name:      item.name,
		RemoteID:  item.remoteID,
		SourceURI: item.sourceURI,
		Size:      item.size,
		ModTime:   item.modTime,
		Dirty:     item.dirty(),
	}
}
