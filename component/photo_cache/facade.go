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

	"github.com/Seagate/photofuse/common"
	"github.com/Seagate/photofuse/common/log"
	"github.com/Seagate/photofuse/internal"
	"github.com/Seagate/photofuse/internal/convertname"
)

func albumNotFound(name string) error {
	return fmt.Errorf("%w: album %q", common.ErrNotFound, name)
}

func photoNotFound(collection string, name string) error {
	return fmt.Errorf("%w: photo %q in album %q", common.ErrNotFound, name, collection)
}

func nameConflict(name string) error {
	return fmt.Errorf("%w: %q already exists", common.ErrConflict, name)
}

// ------------------------- Lookups -------------------------------------------

// ListCollectionNames : every album name, the uncategorized album excluded
func (pc *PhotoCache) ListCollectionNames(ctx context.Context) ([]string, error) {
	log.Trace("PhotoCache::ListCollectionNames")

	var names []string
	err := pc.readOp(ctx, "ListCollectionNames", nil, func() error {
		names = pc.store.collectionNames()
		return nil
	})
	return names, err
}

// ListItemNames : photo names of an album, listing it first if needed
func (pc *PhotoCache) ListItemNames(ctx context.Context, collection string) ([]string, error) {
	log.Trace("PhotoCache::ListItemNames : %s", collection)

	var names []string
	err := pc.readOp(ctx, "ListItemNames", []string{collection}, func() error {
		c, _ := pc.store.lookupCollection(collection)
		names = c.itemNames()
		return nil
	})
	return names, err
}

func (pc *PhotoCache) LookupCollection(ctx context.Context, name string) (internal.Metadata, error) {
	log.Trace("PhotoCache::LookupCollection : %s", name)

	var md internal.Metadata
	err := pc.readOp(ctx, "LookupCollection", nil, func() error {
		c, found := pc.store.lookupCollection(name)
		if !found {
			return albumNotFound(name)
		}
		md = c.toMetadata()
		return nil
	})
	return md, err
}

func (pc *PhotoCache) LookupItem(ctx context.Context, collection string, name string) (internal.Metadata, error) {
	log.Trace("PhotoCache::LookupItem : %s/%s", collection, name)

	var md internal.Metadata
	err := pc.readOp(ctx, "LookupItem", []string{collection}, func() error {
		item, found := pc.store.lookupItem(collection, name)
		if !found {
			return photoNotFound(collection, name)
		}
		md = item.toMetadata()
		return nil
	})
	return md, err
}

// ------------------------- Local state -------------------------------------------

// SetItemSize : remember a size resolved by the caller
func (pc *PhotoCache) SetItemSize(ctx context.Context, collection string, name string, size int64) error {
	log.Trace("PhotoCache::SetItemSize : %s/%s %d", collection, name, size)

	return pc.writeOp(ctx, "SetItemSize", []string{collection}, func(_ context.Context) error {
		item, found := pc.store.lookupItem(collection, name)
		if !found {
			return photoNotFound(collection, name)
		}
		item.size = size
		return nil
	})
}

// SetItemDirty : a local write began (true) or was abandoned (false)
func (pc *PhotoCache) SetItemDirty(ctx context.Context, collection string, name string, dirty bool) error {
	log.Trace("PhotoCache::SetItemDirty : %s/%s %t", collection, name, dirty)

	return pc.writeOp(ctx, "SetItemDirty", []string{collection}, func(_ context.Context) error {
		item, found := pc.store.lookupItem(collection, name)
		if !found {
			return photoNotFound(collection, name)
		}
		if dirty {
			item.markDirty()
		} else {
			item.markClean()
		}
		return nil
	})
}

func (pc *PhotoCache) GetItemDirty(ctx context.Context, collection string, name string) (bool, error) {
	log.Trace("PhotoCache::GetItemDirty : %s/%s", collection, name)

	dirty := false
	err := pc.readOp(ctx, "GetItemDirty", []string{collection}, func() error {
		item, found := pc.store.lookupItem(collection, name)
		if !found {
			return photoNotFound(collection, name)
		}
		dirty = item.dirty()
		return nil
	})
	return dirty, err
}

// ------------------------- Mutations -------------------------------------------

// RenameItem : re-key a photo. The photo service is told first unless the photo
// or its album exist only locally.
func (pc *PhotoCache) RenameItem(ctx context.Context, collection string, oldName string, newName string) error {
	log.Trace("PhotoCache::RenameItem : %s/%s -> %s", collection, oldName, newName)

	return pc.writeOp(ctx, "RenameItem", []string{collection}, func(ctx context.Context) error {
		c, _ := pc.store.lookupCollection(collection)
		item, found := c.items[oldName]
		if !found {
			return photoNotFound(collection, oldName)
		}
		if oldName == newName {
			return nil
		}
		if _, taken := c.items[newName]; taken {
			return nameConflict(newName)
		}

		if item.remoteID != "" && !c.dirty() {
			err := pc.callRemote(ctx, "RenameItem", func(ctx context.Context) error {
				return pc.remote.RenameItem(ctx, item.remoteID, convertname.FileNameToTitle(newName))
			})
			if err != nil {
				log.Err("PhotoCache::RenameItem : failed to rename %s/%s [%s]", collection, oldName, err)
				return err
			}
		}

		c.rekeyItem(oldName, newName)
		return nil
	})
}

// RenameCollection : re-key an album, renaming it remotely first when it exists there
func (pc *PhotoCache) RenameCollection(ctx context.Context, oldName string, newName string) error {
	log.Trace("PhotoCache::RenameCollection : %s -> %s", oldName, newName)

	return pc.writeOp(ctx, "RenameCollection", nil, func(ctx context.Context) error {
		c, found := pc.store.lookupCollection(oldName)
		if !found {
			return albumNotFound(oldName)
		}
		if oldName == newName {
			return nil
		}
		if oldName == common.UncategorizedName || newName == common.UncategorizedName {
			return fmt.Errorf("%w: the uncategorized album can not be renamed", common.ErrConflict)
		}
		if _, taken := pc.store.lookupCollection(newName); taken {
			return nameConflict(newName)
		}

		if !c.dirty() && c.remoteID != "" {
			err := pc.callRemote(ctx, "RenameCollection", func(ctx context.Context) error {
				return pc.remote.RenameCollection(ctx, c.remoteID, convertname.FileNameToTitle(newName))
			})
			if err != nil {
				log.Err("PhotoCache::RenameCollection : failed to rename %s [%s]", oldName, err)
				return err
			}
		}

		pc.store.rekeyCollection(oldName, newName)
		return nil
	})
}

// MoveItem : move a photo between albums. Both albums are listed again on next access
// instead of being reconciled here.
func (pc *PhotoCache) MoveItem(ctx context.Context, srcCollection string, dstCollection string, name string) error {
	log.Trace("PhotoCache::MoveItem : %s/%s -> %s", srcCollection, name, dstCollection)

	if srcCollection == dstCollection {
		_, err := pc.LookupItem(ctx, srcCollection, name)
		return err
	}

	return pc.writeOp(ctx, "MoveItem", []string{srcCollection, dstCollection}, func(ctx context.Context) error {
		src, _ := pc.store.lookupCollection(srcCollection)
		dst, _ := pc.store.lookupCollection(dstCollection)
		item, found := src.items[name]
		if !found {
			return photoNotFound(srcCollection, name)
		}
		if _, taken := dst.items[name]; taken {
			return nameConflict(name)
		}

		if item.remoteID != "" {
			if err := pc.moveRemote(ctx, src, dst, item); err != nil {
				log.Err("PhotoCache::MoveItem : failed to move %s/%s to %s [%s]", srcCollection, name, dstCollection, err)
				return err
			}
		}

		delete(src.items, name)
		if item.remoteID == "" || item.dirty() {
			// nothing remote would bring it back, keep the local entry
			dst.insertItem(item)
		}
		if item.remoteID != "" {
			src.itemCount--
			dst.itemCount++
		}

		src.invalidate()
		dst.invalidate()
		return nil
	})
}

// moveRemote : detach from the source album and attach to the destination.
// The uncategorized album is implicit on the photo service so it is neither
// detached from nor attached to. Caller holds the write lock.
func (pc *PhotoCache) moveRemote(ctx context.Context, src *collectionEntry, dst *collectionEntry, item *itemEntry) error {
	if src.remoteID != "" {
		err := pc.callRemote(ctx, "RemoveItemFromCollection", func(ctx context.Context) error {
			return pc.remote.RemoveItemFromCollection(ctx, src.remoteID, item.remoteID)
		})
		if err != nil {
			return err
		}
	}

	var err error
	switch {
	case dst.name == common.UncategorizedName:
		return nil
	case dst.pending():
		err = pc.createCollection(ctx, dst, item.remoteID)
	default:
		err = pc.callRemote(ctx, "AddItemToCollection", func(ctx context.Context) error {
			return pc.remote.AddItemToCollection(ctx, dst.remoteID, item.remoteID)
		})
	}

	if err != nil && src.remoteID != "" {
		// put it back where it was so the failed move leaves no trace
		undo := pc.callRemote(ctx, "AddItemToCollection", func(ctx context.Context) error {
			return pc.remote.AddItemToCollection(ctx, src.remoteID, item.remoteID)
		})
		if undo != nil {
			log.Err("PhotoCache::moveRemote : photo %s left outside of album %s [%s]", item.remoteID, src.name, undo)
		}
	}
	return err
}

// createCollection : create a pending album on the photo service, seeded with one photo.
// Caller holds the write lock.
func (pc *PhotoCache) createCollection(ctx context.Context, c *collectionEntry, seedID string) error {
	var remoteID string
	err := pc.callRemote(ctx, "CreateCollection", func(ctx context.Context) error {
		var err error
		remoteID, err = pc.remote.CreateCollection(ctx, convertname.FileNameToTitle(c.name), seedID)
		return err
	})
	if err != nil {
		return err
	}
	c.remoteID = remoteID
	c.markClean()
	log.Info("PhotoCache::createCollection : album %s created as %s", c.name, remoteID)
	return nil
}

// CreateEmptyCollection : a local album that reaches the photo service with its first photo
func (pc *PhotoCache) CreateEmptyCollection(ctx context.Context, name string) error {
	log.Trace("PhotoCache::CreateEmptyCollection : %s", name)

	return pc.writeOp(ctx, "CreateEmptyCollection", nil, func(_ context.Context) error {
		if name == common.UncategorizedName {
			return nameConflict(name)
		}
		c := newCollectionEntry(name, "", 0)
		c.markDirty()
		c.markPopulated(pc.clock())
		if !pc.store.insertCollection(c) {
			return nameConflict(name)
		}
		return nil
	})
}

// CreateEmptyItem : a local photo waiting for its content
func (pc *PhotoCache) CreateEmptyItem(ctx context.Context, collection string, name string) error {
	log.Trace("PhotoCache::CreateEmptyItem : %s/%s", collection, name)

	return pc.writeOp(ctx, "CreateEmptyItem", []string{collection}, func(_ context.Context) error {
		c, _ := pc.store.lookupCollection(collection)
		item := newItemEntry(name, "", "", pc.clock())
		item.size = 0
		item.markDirty()
		if name == "" || !c.insertItem(item) {
			return nameConflict(name)
		}
		return nil
	})
}

// CommitUpload : send a dirty photo to the photo service and attach it to its album.
//
// The upload id is kept on the entry until the album step succeeds so that a retry
// does not upload the bytes twice. A photo that already had a remote id was rewritten;
// the old copy is deleted once the new one is in place.
func (pc *PhotoCache) CommitUpload(ctx context.Context, collection string, name string, localPath string) error {
	log.Trace("PhotoCache::CommitUpload : %s/%s from %s", collection, name, localPath)

	return pc.writeOp(ctx, "CommitUpload", []string{collection}, func(ctx context.Context) error {
		c, _ := pc.store.lookupCollection(collection)
		item, found := c.items[name]
		if !found {
			return photoNotFound(collection, name)
		}
		if !item.dirty() {
			log.Debug("PhotoCache::CommitUpload : %s/%s is clean, nothing to upload", collection, name)
			return nil
		}

		if item.stagedID == "" {
			var uploadedID string
			err := pc.callRemote(ctx, "Upload", func(ctx context.Context) error {
				var err error
				uploadedID, err = pc.remote.Upload(ctx, localPath, convertname.FileNameToTitle(name))
				return err
			})
			if err != nil {
				log.Err("PhotoCache::CommitUpload : failed to upload %s/%s [%s]", collection, name, err)
				return err
			}
			item.stagedID = uploadedID
		}

		var err error
		switch {
		case c.pending():
			err = pc.createCollection(ctx, c, item.stagedID)
		case c.remoteID != "":
			err = pc.callRemote(ctx, "AddItemToCollection", func(ctx context.Context) error {
				return pc.remote.AddItemToCollection(ctx, c.remoteID, item.stagedID)
			})
		}
		if err != nil {
			log.Err("PhotoCache::CommitUpload : uploaded %s/%s as %s but could not attach it [%s]", collection, name, item.stagedID, err)
			return err
		}

		replaced := item.remoteID
		item.remoteID = item.stagedID
		item.stagedID = ""
		item.markClean()
		if replaced == "" {
			c.itemCount++
		}
		c.invalidate()

		if replaced != "" && replaced != item.remoteID {
			err = pc.callRemote(ctx, "DeleteItem", func(ctx context.Context) error {
				return pc.remote.DeleteItem(ctx, replaced)
			})
			if err != nil {
				log.Warn("PhotoCache::CommitUpload : previous copy %s of %s/%s not deleted [%s]", replaced, collection, name, err)
			}
		}
		return nil
	})
}

// DeleteItem : delete the photo remotely when it exists there, then drop it locally
func (pc *PhotoCache) DeleteItem(ctx context.Context, collection string, name string) error {
	log.Trace("PhotoCache::DeleteItem : %s/%s", collection, name)

	return pc.writeOp(ctx, "DeleteItem", []string{collection}, func(ctx context.Context) error {
		c, _ := pc.store.lookupCollection(collection)
		item, found := c.items[name]
		if !found {
			return photoNotFound(collection, name)
		}

		if item.remoteID != "" {
			err := pc.callRemote(ctx, "DeleteItem", func(ctx context.Context) error {
				return pc.remote.DeleteItem(ctx, item.remoteID)
			})
			if err != nil {
				log.Err("PhotoCache::DeleteItem : failed to delete %s/%s [%s]", collection, name, err)
				return err
			}
			c.itemCount--
		}
		if item.stagedID != "" {
			err := pc.callRemote(ctx, "DeleteItem", func(ctx context.Context) error {
				return pc.remote.DeleteItem(ctx, item.stagedID)
			})
			if err != nil {
				log.Warn("PhotoCache::DeleteItem : staged upload %s of %s/%s not deleted [%s]", item.stagedID, collection, name, err)
			}
		}

		pc.store.removeItem(collection, name)
		return nil
	})
}
