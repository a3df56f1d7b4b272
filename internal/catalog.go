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

package internal

import (
	"context"
	"time"
)

// Metadata : copy of a cached album or photo handed out to callers.
// It is never a live reference into the cache.
type Metadata struct {
	Name      string
	RemoteID  string
	SourceURI string
	Size      int64
	ModTime   time.Time
	Dirty     bool

	// set for albums only
	IsCollection bool
	ItemCount    int
}

// ListingTTL : implemented by catalogs that trust a remote listing for a bounded time
type ListingTTL interface {
	ListingTTL() time.Duration
}

// Catalog : the album/photo namespace the filesystem layer reads and edits.
// Lookups of absent names fail with common.ErrNotFound.
type Catalog interface {
	ListCollectionNames(ctx context.Context) ([]string, error)
	ListItemNames(ctx context.Context, collection string) ([]string, error)

	LookupCollection(ctx context.Context, name string) (Metadata, error)
	LookupItem(ctx context.Context, collection string, name string) (Metadata, error)

	SetItemSize(ctx context.Context, collection string, name string, size int64) error
	SetItemDirty(ctx context.Context, collection string, name string, dirty bool) error
	GetItemDirty(ctx context.Context, collection string, name string) (bool, error)

	RenameItem(ctx context.Context, collection string, oldName string, newName string) error
	RenameCollection(ctx context.Context, oldName string, newName string) error
	MoveItem(ctx context.Context, srcCollection string, dstCollection string, name string) error

	CreateEmptyCollection(ctx context.Context, name string) error
	CreateEmptyItem(ctx context.Context, collection string, name string) error
	CommitUpload(ctx context.Context, collection string, name string, localPath string) error
	DeleteItem(ctx context.Context, collection string, name string) error
}
