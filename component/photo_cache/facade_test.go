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
	"sync"
	"time"

	"github.com/Seagate/photofuse/common"
	"github.com/Seagate/photofuse/internal"

	"github.com/golang/mock/gomock"
)

// ------------------------- Local state -------------------------------------------

func (suite *photoCacheTestSuite) TestSetItemSize() {
	defer suite.cleanupTest()
	suite.expectAlbums(album("Trips", "t1", 1))
	suite.expectPhotos("t1", photo("a.jpg", "9"))

	suite.assert.Nil(suite.photoCache.SetItemSize(suite.ctx, "Trips", "a.jpg", 2048))
	md, err := suite.photoCache.LookupItem(suite.ctx, "Trips", "a.jpg")
	suite.assert.Nil(err)
	suite.assert.EqualValues(2048, md.Size)

	err = suite.photoCache.SetItemSize(suite.ctx, "Trips", "b.jpg", 1)
	suite.assert.ErrorIs(err, common.ErrNotFound)
}

func (suite *photoCacheTestSuite) TestSetItemDirtyToggles() {
	defer suite.cleanupTest()
	suite.expectAlbums(album("Trips", "t1", 1))
	suite.expectPhotos("t1", photo("a.jpg", "9"))

	dirty, err := suite.photoCache.GetItemDirty(suite.ctx, "Trips", "a.jpg")
	suite.assert.Nil(err)
	suite.assert.False(dirty)

	suite.assert.Nil(suite.photoCache.SetItemDirty(suite.ctx, "Trips", "a.jpg", true))
	dirty, _ = suite.photoCache.GetItemDirty(suite.ctx, "Trips", "a.jpg")
	suite.assert.True(dirty)

	suite.assert.Nil(suite.photoCache.SetItemDirty(suite.ctx, "Trips", "a.jpg", false))
	dirty, _ = suite.photoCache.GetItemDirty(suite.ctx, "Trips", "a.jpg")
	suite.assert.False(dirty)

	_, err = suite.photoCache.GetItemDirty(suite.ctx, "Trips", "zzz.jpg")
	suite.assert.ErrorIs(err, common.ErrNotFound)
}

// ------------------------- Rename -------------------------------------------

func (suite *photoCacheTestSuite) TestRenameItemRoundTrip() {
	defer suite.cleanupTest()
	suite.expectAlbums(album("Trips", "t1", 1))
	suite.expectPhotos("t1", photo("a.jpg", "9"))
	suite.mock.EXPECT().RenameItem(gomock.Any(), "9", "b.jpg").Return(nil)

	suite.assert.Nil(suite.photoCache.RenameItem(suite.ctx, "Trips", "a.jpg", "b.jpg"))

	md, err := suite.photoCache.LookupItem(suite.ctx, "Trips", "b.jpg")
	suite.assert.Nil(err)
	suite.assert.Equal("9", md.RemoteID)
	suite.assert.Equal("https://photos.example.com/9", md.SourceURI)

	_, err = suite.photoCache.LookupItem(suite.ctx, "Trips", "a.jpg")
	suite.assert.ErrorIs(err, common.ErrNotFound)
}

func (suite *photoCacheTestSuite) TestRenameItemRemoteFailureKeepsEntry() {
	defer suite.cleanupTest()
	suite.expectAlbums(album("Trips", "t1", 1))
	suite.expectPhotos("t1", photo("a.jpg", "9"))
	suite.mock.EXPECT().RenameItem(gomock.Any(), "9", "b.jpg").Return(errRemote)

	err := suite.photoCache.RenameItem(suite.ctx, "Trips", "a.jpg", "b.jpg")
	suite.assert.ErrorIs(err, common.ErrRemoteUnavailable)

	names, err := suite.photoCache.ListItemNames(suite.ctx, "Trips")
	suite.assert.Nil(err)
	suite.assert.Equal([]string{"a.jpg"}, names)
}

func (suite *photoCacheTestSuite) TestRenameItemInPendingAlbumIsLocal() {
	defer suite.cleanupTest()
	suite.expectAlbums()

	suite.assert.Nil(suite.photoCache.CreateEmptyCollection(suite.ctx, "Trips"))
	suite.assert.Nil(suite.photoCache.CreateEmptyItem(suite.ctx, "Trips", "a.jpg"))
	// the mock fails the test on any remote rename
	suite.assert.Nil(suite.photoCache.RenameItem(suite.ctx, "Trips", "a.jpg", "b.jpg"))

	names, err := suite.photoCache.ListItemNames(suite.ctx, "Trips")
	suite.assert.Nil(err)
	suite.assert.Equal([]string{"b.jpg"}, names)
}

func (suite *photoCacheTestSuite) TestRenameItemConflict() {
	defer suite.cleanupTest()
	suite.expectAlbums(album("Trips", "t1", 2))
	suite.expectPhotos("t1", photo("a.jpg", "1"), photo("b.jpg", "2"))

	err := suite.photoCache.RenameItem(suite.ctx, "Trips", "a.jpg", "b.jpg")
	suite.assert.ErrorIs(err, common.ErrConflict)

	err = suite.photoCache.RenameItem(suite.ctx, "Trips", "c.jpg", "d.jpg")
	suite.assert.ErrorIs(err, common.ErrNotFound)
}

func (suite *photoCacheTestSuite) TestRenameCollection() {
	defer suite.cleanupTest()
	suite.expectAlbums(album("Trips", "t1", 0))
	suite.mock.EXPECT().RenameCollection(gomock.Any(), "t1", "Journeys").Return(nil)

	suite.assert.Nil(suite.photoCache.RenameCollection(suite.ctx, "Trips", "Journeys"))

	names, err := suite.photoCache.ListCollectionNames(suite.ctx)
	suite.assert.Nil(err)
	suite.assert.Equal([]string{"Journeys"}, names)

	md, err := suite.photoCache.LookupCollection(suite.ctx, "Journeys")
	suite.assert.Nil(err)
	suite.assert.Equal("t1", md.RemoteID)
}

func (suite *photoCacheTestSuite) TestRenameCollectionFailures() {
	defer suite.cleanupTest()
	suite.expectAlbums(album("Trips", "t1", 0), album("Pets", "p1", 0))
	suite.mock.EXPECT().RenameCollection(gomock.Any(), "t1", "Journeys").Return(errRemote)

	err := suite.photoCache.RenameCollection(suite.ctx, "Trips", "Journeys")
	suite.assert.ErrorIs(err, common.ErrRemoteUnavailable)

	err = suite.photoCache.RenameCollection(suite.ctx, "Trips", "Pets")
	suite.assert.ErrorIs(err, common.ErrConflict)

	err = suite.photoCache.RenameCollection(suite.ctx, common.UncategorizedName, "Loose")
	suite.assert.ErrorIs(err, common.ErrConflict)

	err = suite.photoCache.RenameCollection(suite.ctx, "Nowhere", "Somewhere")
	suite.assert.ErrorIs(err, common.ErrNotFound)

	names, _ := suite.photoCache.ListCollectionNames(suite.ctx)
	suite.assert.Equal([]string{"Pets", "Trips"}, names)
}

func (suite *photoCacheTestSuite) TestRenamePendingCollectionIsLocal() {
	defer suite.cleanupTest()
	suite.expectAlbums()

	suite.assert.Nil(suite.photoCache.CreateEmptyCollection(suite.ctx, "Trips"))
	suite.assert.Nil(suite.photoCache.RenameCollection(suite.ctx, "Trips", "Journeys"))

	md, err := suite.photoCache.LookupCollection(suite.ctx, "Journeys")
	suite.assert.Nil(err)
	suite.assert.True(md.Dirty)
}

// ------------------------- Move -------------------------------------------

func (suite *photoCacheTestSuite) TestMoveItem() {
	defer suite.cleanupTest()
	suite.expectAlbums(album("A", "a1", 1), album("B", "b1", 0))
	gomock.InOrder(
		suite.expectPhotos("a1", photo("x.jpg", "x1")),
		suite.mock.EXPECT().RemoveItemFromCollection(gomock.Any(), "a1", "x1").Return(nil),
		suite.mock.EXPECT().AddItemToCollection(gomock.Any(), "b1", "x1").Return(nil),
		suite.expectPhotos("a1"),
	)
	gomock.InOrder(
		suite.expectPhotos("b1"),
		suite.expectPhotos("b1", photo("x.jpg", "x1")),
	)

	suite.assert.Nil(suite.photoCache.MoveItem(suite.ctx, "A", "B", "x.jpg"))

	a, _ := suite.photoCache.store.lookupCollection("A")
	b, _ := suite.photoCache.store.lookupCollection("B")
	suite.assert.False(a.populated())
	suite.assert.False(b.populated())

	names, err := suite.photoCache.ListItemNames(suite.ctx, "A")
	suite.assert.Nil(err)
	suite.assert.Empty(names)

	names, err = suite.photoCache.ListItemNames(suite.ctx, "B")
	suite.assert.Nil(err)
	suite.assert.Equal([]string{"x.jpg"}, names)
}

func (suite *photoCacheTestSuite) TestMoveIntoPendingAlbumCreatesIt() {
	defer suite.cleanupTest()
	suite.expectAlbums()
	suite.expectPhotos("", photo("x.jpg", "x1"))
	suite.mock.EXPECT().CreateCollection(gomock.Any(), "Trips", "x1").Return("t9", nil)

	suite.assert.Nil(suite.photoCache.CreateEmptyCollection(suite.ctx, "Trips"))
	suite.assert.Nil(suite.photoCache.MoveItem(suite.ctx, common.UncategorizedName, "Trips", "x.jpg"))

	c, _ := suite.photoCache.store.lookupCollection("Trips")
	suite.assert.Equal("t9", c.remoteID)
	suite.assert.False(c.dirty())
}

func (suite *photoCacheTestSuite) TestMoveToUncategorizedOnlyDetaches() {
	defer suite.cleanupTest()
	suite.expectAlbums(album("A", "a1", 1))
	suite.expectPhotos("a1", photo("x.jpg", "x1"))
	suite.expectPhotos("")
	suite.mock.EXPECT().RemoveItemFromCollection(gomock.Any(), "a1", "x1").Return(nil)

	suite.assert.Nil(suite.photoCache.MoveItem(suite.ctx, "A", common.UncategorizedName, "x.jpg"))
}

func (suite *photoCacheTestSuite) TestMoveFailureRestoresSource() {
	defer suite.cleanupTest()
	suite.expectAlbums(album("A", "a1", 1), album("B", "b1", 0))
	suite.expectPhotos("a1", photo("x.jpg", "x1"))
	suite.expectPhotos("b1")
	gomock.InOrder(
		suite.mock.EXPECT().RemoveItemFromCollection(gomock.Any(), "a1", "x1").Return(nil),
		suite.mock.EXPECT().AddItemToCollection(gomock.Any(), "b1", "x1").Return(errRemote),
		suite.mock.EXPECT().AddItemToCollection(gomock.Any(), "a1", "x1").Return(nil),
	)

	err := suite.photoCache.MoveItem(suite.ctx, "A", "B", "x.jpg")
	suite.assert.ErrorIs(err, common.ErrRemoteUnavailable)

	// unchanged and still trusted, so no further listing happens
	md, err := suite.photoCache.LookupItem(suite.ctx, "A", "x.jpg")
	suite.assert.Nil(err)
	suite.assert.Equal("x1", md.RemoteID)
}

func (suite *photoCacheTestSuite) TestMoveLocalPhotoIsLocal() {
	defer suite.cleanupTest()
	suite.expectAlbums()
	suite.expectPhotos("")

	suite.assert.Nil(suite.photoCache.CreateEmptyCollection(suite.ctx, "Trips"))
	suite.assert.Nil(suite.photoCache.CreateEmptyItem(suite.ctx, common.UncategorizedName, "new.jpg"))
	suite.assert.Nil(suite.photoCache.MoveItem(suite.ctx, common.UncategorizedName, "Trips", "new.jpg"))

	md, err := suite.photoCache.LookupItem(suite.ctx, "Trips", "new.jpg")
	suite.assert.Nil(err)
	suite.assert.True(md.Dirty)
}

func (suite *photoCacheTestSuite) TestMoveConflict() {
	defer suite.cleanupTest()
	suite.expectAlbums(album("A", "a1", 1), album("B", "b1", 1))
	suite.expectPhotos("a1", photo("x.jpg", "x1"))
	suite.expectPhotos("b1", photo("x.jpg", "x2"))

	err := suite.photoCache.MoveItem(suite.ctx, "A", "B", "x.jpg")
	suite.assert.ErrorIs(err, common.ErrConflict)

	err = suite.photoCache.MoveItem(suite.ctx, "A", "Nowhere", "x.jpg")
	suite.assert.ErrorIs(err, common.ErrNotFound)
}

// ------------------------- Create -------------------------------------------

func (suite *photoCacheTestSuite) TestCreateConflicts() {
	defer suite.cleanupTest()
	suite.expectAlbums(album("Trips", "t1", 1))
	suite.expectPhotos("t1", photo("a.jpg", "9"))

	err := suite.photoCache.CreateEmptyCollection(suite.ctx, "Trips")
	suite.assert.ErrorIs(err, common.ErrConflict)
	err = suite.photoCache.CreateEmptyCollection(suite.ctx, common.UncategorizedName)
	suite.assert.ErrorIs(err, common.ErrConflict)

	err = suite.photoCache.CreateEmptyItem(suite.ctx, "Trips", "a.jpg")
	suite.assert.ErrorIs(err, common.ErrConflict)
	err = suite.photoCache.CreateEmptyItem(suite.ctx, "Nowhere", "a.jpg")
	suite.assert.ErrorIs(err, common.ErrNotFound)

	suite.assert.Nil(suite.photoCache.CreateEmptyItem(suite.ctx, "Trips", "b.jpg"))
	md, err := suite.photoCache.LookupItem(suite.ctx, "Trips", "b.jpg")
	suite.assert.Nil(err)
	suite.assert.True(md.Dirty)
	suite.assert.EqualValues(0, md.Size)
	suite.assert.Equal(suite.now, md.ModTime)
}

// ------------------------- Commit -------------------------------------------

func (suite *photoCacheTestSuite) TestCommitUploadCreatesPendingAlbum() {
	defer suite.cleanupTest()
	suite.expectAlbums()
	gomock.InOrder(
		suite.mock.EXPECT().Upload(gomock.Any(), "/scratch/Trips/day1.jpg", "day1.jpg").Return("p1", nil),
		suite.mock.EXPECT().CreateCollection(gomock.Any(), "Trips", "p1").Return("t1", nil),
		suite.expectPhotos("t1", photo("day1.jpg", "p1")),
	)

	suite.assert.Nil(suite.photoCache.CreateEmptyCollection(suite.ctx, "Trips"))
	suite.assert.Nil(suite.photoCache.CreateEmptyItem(suite.ctx, "Trips", "day1.jpg"))
	suite.assert.Nil(suite.photoCache.CommitUpload(suite.ctx, "Trips", "day1.jpg", "/scratch/Trips/day1.jpg"))

	c, _ := suite.photoCache.store.lookupCollection("Trips")
	suite.assert.Equal("t1", c.remoteID)
	suite.assert.False(c.dirty())
	suite.assert.Equal(1, c.itemCount)

	md, err := suite.photoCache.LookupItem(suite.ctx, "Trips", "day1.jpg")
	suite.assert.Nil(err)
	suite.assert.False(md.Dirty)
	suite.assert.Equal("p1", md.RemoteID)
}

func (suite *photoCacheTestSuite) TestCommitUploadRetryReusesUpload() {
	defer suite.cleanupTest()
	suite.expectAlbums(album("Trips", "t1", 0))
	suite.expectPhotos("t1")
	gomock.InOrder(
		suite.mock.EXPECT().Upload(gomock.Any(), "/tmp/a.jpg", "a.jpg").Return("p1", nil).Times(1),
		suite.mock.EXPECT().AddItemToCollection(gomock.Any(), "t1", "p1").Return(errRemote),
		suite.mock.EXPECT().AddItemToCollection(gomock.Any(), "t1", "p1").Return(nil),
	)

	suite.assert.Nil(suite.photoCache.CreateEmptyItem(suite.ctx, "Trips", "a.jpg"))

	err := suite.photoCache.CommitUpload(suite.ctx, "Trips", "a.jpg", "/tmp/a.jpg")
	suite.assert.ErrorIs(err, common.ErrRemoteUnavailable)
	dirty, _ := suite.photoCache.GetItemDirty(suite.ctx, "Trips", "a.jpg")
	suite.assert.True(dirty)

	suite.assert.Nil(suite.photoCache.CommitUpload(suite.ctx, "Trips", "a.jpg", "/tmp/a.jpg"))
	item, _ := suite.photoCache.store.lookupItem("Trips", "a.jpg")
	suite.assert.Equal("p1", item.remoteID)
	suite.assert.False(item.dirty())
}

func (suite *photoCacheTestSuite) TestCommitUploadRewriteReplacesOldCopy() {
	defer suite.cleanupTest()
	suite.expectAlbums(album("Trips", "t1", 1))
	suite.expectPhotos("t1", photo("a.jpg", "9"))
	gomock.InOrder(
		suite.mock.EXPECT().Upload(gomock.Any(), "/tmp/a.jpg", "a.jpg").Return("10", nil),
		suite.mock.EXPECT().AddItemToCollection(gomock.Any(), "t1", "10").Return(nil),
		suite.mock.EXPECT().DeleteItem(gomock.Any(), "9").Return(errRemote),
	)

	suite.assert.Nil(suite.photoCache.SetItemDirty(suite.ctx, "Trips", "a.jpg", true))
	// a failed cleanup of the old copy does not fail the commit
	suite.assert.Nil(suite.photoCache.CommitUpload(suite.ctx, "Trips", "a.jpg", "/tmp/a.jpg"))

	c, _ := suite.photoCache.store.lookupCollection("Trips")
	suite.assert.Equal(1, c.itemCount)
	suite.assert.Equal("10", c.items["a.jpg"].remoteID)
}

func (suite *photoCacheTestSuite) TestCommitUploadUncategorized() {
	defer suite.cleanupTest()
	suite.expectAlbums()
	suite.expectPhotos("")
	suite.mock.EXPECT().Upload(gomock.Any(), "/tmp/a.jpg", "a.jpg").Return("p1", nil)

	suite.assert.Nil(suite.photoCache.CreateEmptyItem(suite.ctx, common.UncategorizedName, "a.jpg"))
	suite.assert.Nil(suite.photoCache.CommitUpload(suite.ctx, common.UncategorizedName, "a.jpg", "/tmp/a.jpg"))
}

func (suite *photoCacheTestSuite) TestCommitUploadFailureKeepsDirty() {
	defer suite.cleanupTest()
	suite.expectAlbums()
	suite.mock.EXPECT().Upload(gomock.Any(), "/tmp/a.jpg", "a.jpg").Return("", errRemote)

	suite.assert.Nil(suite.photoCache.CreateEmptyCollection(suite.ctx, "Trips"))
	suite.assert.Nil(suite.photoCache.CreateEmptyItem(suite.ctx, "Trips", "a.jpg"))
	err := suite.photoCache.CommitUpload(suite.ctx, "Trips", "a.jpg", "/tmp/a.jpg")
	suite.assert.ErrorIs(err, common.ErrRemoteUnavailable)

	c, _ := suite.photoCache.store.lookupCollection("Trips")
	suite.assert.True(c.pending())
	suite.assert.True(c.items["a.jpg"].dirty())
	suite.assert.Equal("", c.items["a.jpg"].stagedID)
}

func (suite *photoCacheTestSuite) TestCommitCleanPhotoIsNoop() {
	defer suite.cleanupTest()
	suite.expectAlbums(album("Trips", "t1", 1))
	suite.expectPhotos("t1", photo("a.jpg", "9"))

	suite.assert.Nil(suite.photoCache.CommitUpload(suite.ctx, "Trips", "a.jpg", "/tmp/a.jpg"))
}

// ------------------------- Delete -------------------------------------------

func (suite *photoCacheTestSuite) TestDeleteCleanItem() {
	defer suite.cleanupTest()
	suite.expectAlbums(album("Trips", "t1", 2))
	suite.expectPhotos("t1", photo("a.jpg", "9"), photo("b.jpg", "10"))
	suite.mock.EXPECT().DeleteItem(gomock.Any(), "9").Return(nil)

	suite.assert.Nil(suite.photoCache.DeleteItem(suite.ctx, "Trips", "a.jpg"))

	names, err := suite.photoCache.ListItemNames(suite.ctx, "Trips")
	suite.assert.Nil(err)
	suite.assert.Equal([]string{"b.jpg"}, names)
	md, _ := suite.photoCache.LookupCollection(suite.ctx, "Trips")
	suite.assert.Equal(1, md.ItemCount)
}

func (suite *photoCacheTestSuite) TestDeleteRemoteFailureKeepsItem() {
	defer suite.cleanupTest()
	suite.expectAlbums(album("Trips", "t1", 1))
	suite.expectPhotos("t1", photo("a.jpg", "9"))
	suite.mock.EXPECT().DeleteItem(gomock.Any(), "9").Return(errRemote)

	err := suite.photoCache.DeleteItem(suite.ctx, "Trips", "a.jpg")
	suite.assert.ErrorIs(err, common.ErrRemoteUnavailable)

	_, err = suite.photoCache.LookupItem(suite.ctx, "Trips", "a.jpg")
	suite.assert.Nil(err)
}

func (suite *photoCacheTestSuite) TestDeleteLocalItem() {
	defer suite.cleanupTest()
	suite.expectAlbums()

	suite.assert.Nil(suite.photoCache.CreateEmptyCollection(suite.ctx, "Trips"))
	suite.assert.Nil(suite.photoCache.CreateEmptyItem(suite.ctx, "Trips", "a.jpg"))
	suite.assert.Nil(suite.photoCache.DeleteItem(suite.ctx, "Trips", "a.jpg"))

	_, err := suite.photoCache.LookupItem(suite.ctx, "Trips", "a.jpg")
	suite.assert.ErrorIs(err, common.ErrNotFound)
	err = suite.photoCache.DeleteItem(suite.ctx, "Trips", "a.jpg")
	suite.assert.ErrorIs(err, common.ErrNotFound)
}

// ------------------------- Concurrency -------------------------------------------

func (suite *photoCacheTestSuite) TestConcurrentReadersDoNotSerialize() {
	defer suite.cleanupTest()
	photos := make([]internal.RemoteItem, 0, 16)
	for i := 0; i < 16; i++ {
		photos = append(photos, photo(string(rune('a'+i))+".jpg", string(rune('A'+i))))
	}
	suite.expectAlbums(album("Trips", "t1", len(photos)))
	suite.expectPhotos("t1", photos...)

	_, err := suite.photoCache.ListItemNames(suite.ctx, "Trips")
	suite.assert.Nil(err)

	// hold a read lock for the whole test; readers only need a read lock too
	suite.photoCache.cacheLock.RLock()
	defer suite.photoCache.cacheLock.RUnlock()

	var wg sync.WaitGroup
	results := make(chan error, len(photos))
	for _, p := range photos {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			_, err := suite.photoCache.LookupItem(suite.ctx, "Trips", name)
			results <- err
		}(p.Name)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		suite.FailNow("readers blocked behind each other")
	}

	close(results)
	for err := range results {
		suite.assert.Nil(err)
	}
}

func (suite *photoCacheTestSuite) TestEveryCommittedPhotoListedOnce() {
	defer suite.cleanupTest()
	suite.expectAlbums(album("Trips", "t1", 4))
	suite.expectPhotos("t1", photo("a.jpg", "1"), photo("a.jpg", "2"), photo("", "3"), photo("b.jpg", "4"))

	names, err := suite.photoCache.ListItemNames(suite.ctx, "Trips")
	suite.assert.Nil(err)

	seen := make(map[string]int)
	for _, name := range names {
		md, err := suite.photoCache.LookupItem(suite.ctx, "Trips", name)
		suite.assert.Nil(err)
		suite.assert.Equal(name, md.Name)
		seen[md.RemoteID]++
	}
	suite.assert.Equal(map[string]int{"1": 1, "2": 1, "3": 1, "4": 1}, seen)
}
