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

// Clean/dirty transitions. A dirty entry is never evicted by a sweep.

func (c *collectionEntry) dirty() bool {
	return c.flags.IsSet(EntryFlagDirty)
}

func (c *collectionEntry) markDirty() {
	c.flags.Set(EntryFlagDirty)
}

func (c *collectionEntry) markClean() {
	c.flags.Clear(EntryFlagDirty)
}

// pending : created locally and not yet known to the photo service
func (c *collectionEntry) pending() bool {
	return c.dirty() && c.remoteID == "" && c.name != ""
}

// evictable : clean with nothing left under it
func (c *collectionEntry) evictable() bool {
	return !c.dirty() && len(c.items) == 0
}

func (item *itemEntry) dirty() bool {
	return item.flags.IsSet(EntryFlagDirty)
}

func (item *itemEntry) markDirty() {
	item.flags.Set(EntryFlagDirty)
}

func (item *itemEntry) markClean() {
	item.flags.Clear(EntryFlagDirty)
}

func (item *itemEntry) evictable() bool {
	return !item.dirty()
}

// evictClean : drop every clean photo, returning them keyed by remote id
// so a following listing can carry over what only the cache knows (the size)
func (c *collectionEntry) evictClean() map[string]*itemEntry {
	evicted := make(map[string]*itemEntry)
	for name, item := range c.items {
		if !item.evictable() {
			continue
		}
		if item.remoteID != "" {
			evicted[item.remoteID] = item
		}
		delete(c.items, name)
	}
	return evicted
}
