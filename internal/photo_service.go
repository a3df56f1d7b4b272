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
)

// RemoteCollection : one album as the photo service lists it
type RemoteCollection struct {
	Name      string
	ID        string
	ItemCount int
}

// RemoteItem : one photo as the photo service lists it.
// TakenText is the capture time in the service's "YYYY-MM-DD hh:mm:ss" form.
// Missing marks an id the collection still lists whose photo is gone; it holds
// its place in the page so a short page always means the end of the collection.
type RemoteItem struct {
	Name      string
	ID        string
	SourceURI string
	TakenText string
	Missing   bool
}

// PhotoService : operations the cache needs from the remote photo account.
// An empty collection id in ListItems selects the photos that belong to no album.
type PhotoService interface {
	ListCollections(ctx context.Context) ([]RemoteCollection, error)
	ListItems(ctx context.Context, collectionID string, page int, perPage int) ([]RemoteItem, error)

	RenameItem(ctx context.Context, itemID string, newName string) error
	RenameCollection(ctx context.Context, collectionID string, newName string) error

	CreateCollection(ctx context.Context, name string, seedItemID string) (string, error)
	AddItemToCollection(ctx context.Context, collectionID string, itemID string) error
	RemoveItemFromCollection(ctx context.Context, collectionID string, itemID string) error

	Upload(ctx context.Context, localPath string, title string) (string, error)
	DeleteItem(ctx context.Context, itemID string) error
}
