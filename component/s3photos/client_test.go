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

package s3photos

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Seagate/photofuse/common"
	"github.com/Seagate/photofuse/common/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type fakeObject struct {
	data        []byte
	contentType string
	metadata    map[string]string
}

// fakeBucket : just enough of the S3 REST API (path style) for Client
type fakeBucket struct {
	mu      sync.Mutex
	name    string
	objects map[string]*fakeObject
	denied  bool
}

type listEntry struct {
	Key  string
	Size int64
}

type listBucketResult struct {
	XMLName     xml.Name `xml:"ListBucketResult"`
	Xmlns       string   `xml:"xmlns,attr"`
	Name        string
	Prefix      string
	Delimiter   string
	KeyCount    int
	MaxKeys     int
	IsTruncated bool
	Contents    []listEntry
}

func (b *fakeBucket) fail(w http.ResponseWriter, r *http.Request, status int, code string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		fmt.Fprintf(w, "<Error><Code>%s</Code><Message>%s</Message></Error>", code, code)
	}
}

func requestMetadata(r *http.Request) map[string]string {
	metadata := map[string]string{}
	for k, v := range r.Header {
		if len(k) > len("X-Amz-Meta-") && strings.EqualFold(k[:len("X-Amz-Meta-")], "X-Amz-Meta-") {
			metadata[strings.ToLower(k[len("X-Amz-Meta-"):])] = v[0]
		}
	}
	return metadata
}

func (b *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	bucket, key, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	if bucket != b.name {
		b.fail(w, r, http.StatusNotFound, "NoSuchBucket")
		return
	}
	if b.denied {
		b.fail(w, r, http.StatusForbidden, "AccessDenied")
		return
	}

	switch {
	case key == "" && r.Method == http.MethodHead:
		w.WriteHeader(http.StatusOK)

	case key == "" && r.Method == http.MethodGet:
		b.list(w, r)

	case r.Method == http.MethodGet || r.Method == http.MethodHead:
		obj, found := b.objects[key]
		if !found {
			b.fail(w, r, http.StatusNotFound, "NoSuchKey")
			return
		}
		for k, v := range obj.metadata {
			w.Header().Set("X-Amz-Meta-"+k, v)
		}
		w.Header().Set("Content-Type", obj.contentType)
		w.Header().Set("Content-Length", fmt.Sprint(len(obj.data)))
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write(obj.data)
		}

	case r.Method == http.MethodPut && r.Header.Get("X-Amz-Copy-Source") != "":
		source := r.Header.Get("X-Amz-Copy-Source")
		for strings.Contains(source, "%") {
			unescaped, err := url.PathUnescape(source)
			if err != nil || unescaped == source {
				break
			}
			source = unescaped
		}
		_, srcKey, _ := strings.Cut(strings.TrimPrefix(source, "/"), "/")
		src, found := b.objects[srcKey]
		if !found {
			b.fail(w, r, http.StatusNotFound, "NoSuchKey")
			return
		}
		b.objects[key] = &fakeObject{
			data:        src.data,
			contentType: r.Header.Get("Content-Type"),
			metadata:    requestMetadata(r),
		}
		w.Header().Set("Content-Type", "application/xml")
		_, _ = io.WriteString(w, `<CopyObjectResult><ETag>"etag"</ETag></CopyObjectResult>`)

	case r.Method == http.MethodPut:
		data, err := io.ReadAll(r.Body)
		if err != nil {
			b.fail(w, r, http.StatusBadRequest, "IncompleteBody")
			return
		}
		b.objects[key] = &fakeObject{
			data:        data,
			contentType: r.Header.Get("Content-Type"),
			metadata:    requestMetadata(r),
		}
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)

	case r.Method == http.MethodDelete:
		delete(b.objects, key)
		w.WriteHeader(http.StatusNoContent)

	default:
		b.fail(w, r, http.StatusMethodNotAllowed, "MethodNotAllowed")
	}
}

func (b *fakeBucket) list(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	delimiter := r.URL.Query().Get("delimiter")

	keys := make([]string, 0)
	for key := range b.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if delimiter != "" && strings.Contains(key[len(prefix):], delimiter) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := listBucketResult{
		Xmlns:     "http://s3.amazonaws.com/doc/2006-03-01/",
		Name:      b.name,
		Prefix:    prefix,
		Delimiter: delimiter,
		KeyCount:  len(keys),
		MaxKeys:   1000,
	}
	for _, key := range keys {
		result.Contents = append(result.Contents, listEntry{Key: key, Size: int64(len(b.objects[key].data))})
	}

	w.Header().Set("Content-Type", "application/xml")
	_, _ = io.WriteString(w, xml.Header)
	_ = xml.NewEncoder(w).Encode(result)
}

func (b *fakeBucket) get(key string) (*fakeObject, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	obj, found := b.objects[key]
	return obj, found
}

func (b *fakeBucket) put(key string, data string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = &fakeObject{data: []byte(data), contentType: "application/yaml", metadata: map[string]string{}}
}

type clientTestSuite struct {
	suite.Suite
	assert *assert.Assertions
	bucket *fakeBucket
	server *httptest.Server
	client *Client
	ctx    context.Context
}

func (s *clientTestSuite) SetupTest() {
	err := log.SetDefaultLogger("silent", common.LogConfig{})
	if err != nil {
		panic("Unable to set silent logger as default.")
	}
	s.assert = assert.New(s.T())
	s.ctx = context.Background()

	s.bucket = &fakeBucket{name: "holiday-photos", objects: map[string]*fakeObject{}}
	s.server = httptest.NewServer(s.bucket)
	s.client = s.newClient("")
}

func (s *clientTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *clientTestSuite) newClient(prefix string) *Client {
	cl := &Client{}
	err := cl.Configure(Config{
		authConfig: s3AuthConfig{
			BucketName: "holiday-photos",
			KeyID:      "testKeyId",
			SecretKey:  "testSecretKey",
			Region:     "us-east-1",
			Endpoint:   s.server.URL,
		},
		prefixPath:    prefix,
		usePathStyle:  true,
		presignExpiry: time.Hour,
	})
	s.assert.Nil(err)
	return cl
}

func (s *clientTestSuite) upload(title string) string {
	path := filepath.Join(s.T().TempDir(), "photo.png")
	s.assert.Nil(os.WriteFile(path, pngBytes, 0600))
	id, err := s.client.Upload(s.ctx, path, title)
	s.assert.Nil(err)
	s.assert.NotEmpty(id)
	return id
}

func (s *clientTestSuite) itemIDs(collectionID string) []string {
	items, err := s.client.ListItems(s.ctx, collectionID, 0, 100)
	s.assert.Nil(err)
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if !item.Missing {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

func (s *clientTestSuite) TestConnection() {
	s.assert.Nil(s.client.TestConnection(s.ctx))

	s.bucket.mu.Lock()
	s.bucket.denied = true
	s.bucket.mu.Unlock()
	s.assert.ErrorIs(s.client.TestConnection(s.ctx), common.ErrRemoteUnavailable)
}

func (s *clientTestSuite) TestEmptyAccount() {
	albums, err := s.client.ListCollections(s.ctx)
	s.assert.Nil(err)
	s.assert.Empty(albums)

	s.assert.Empty(s.itemIDs(""))
}

func (s *clientTestSuite) TestUploadListsUncategorized() {
	id := s.upload("beach day.jpg")

	obj, found := s.bucket.get(photoKey(id))
	s.assert.True(found)
	s.assert.Equal(pngBytes, obj.data)
	s.assert.Equal("image/png", obj.contentType)

	items, err := s.client.ListItems(s.ctx, "", 0, 100)
	s.assert.Nil(err)
	s.assert.Len(items, 1)
	s.assert.Equal("beach day.jpg", items[0].Name)
	s.assert.Equal(id, items[0].ID)
	s.assert.True(strings.HasPrefix(items[0].SourceURI, s.server.URL+"/holiday-photos/photos/"+id))

	_, ok := common.ParseTaken(items[0].TakenText)
	s.assert.True(ok)
}

func (s *clientTestSuite) TestUploadMissingFile() {
	_, err := s.client.Upload(s.ctx, filepath.Join(s.T().TempDir(), "gone.png"), "gone.png")
	s.assert.NotNil(err)
}

func (s *clientTestSuite) TestCreateCollection() {
	p1 := s.upload("a.jpg")
	p2 := s.upload("b.jpg")

	albumID, err := s.client.CreateCollection(s.ctx, "Trips", p1)
	s.assert.Nil(err)
	s.assert.NotEmpty(albumID)

	albums, err := s.client.ListCollections(s.ctx)
	s.assert.Nil(err)
	s.assert.Len(albums, 1)
	s.assert.Equal("Trips", albums[0].Name)
	s.assert.Equal(albumID, albums[0].ID)
	s.assert.Equal(1, albums[0].ItemCount)

	s.assert.Equal([]string{p1}, s.itemIDs(albumID))
	s.assert.Equal([]string{p2}, s.itemIDs(""))
}

func (s *clientTestSuite) TestCreateCollectionUnknownSeed() {
	_, err := s.client.CreateCollection(s.ctx, "Trips", "missing")
	s.assert.ErrorIs(err, common.ErrNotFound)

	albums, err := s.client.ListCollections(s.ctx)
	s.assert.Nil(err)
	s.assert.Empty(albums)
}

func (s *clientTestSuite) TestAddAndRemove() {
	p1 := s.upload("a.jpg")
	p2 := s.upload("b.jpg")
	albumID, err := s.client.CreateCollection(s.ctx, "Trips", p1)
	s.assert.Nil(err)

	s.assert.Nil(s.client.AddItemToCollection(s.ctx, albumID, p2))
	s.assert.Nil(s.client.AddItemToCollection(s.ctx, albumID, p2))
	s.assert.Equal([]string{p1, p2}, s.itemIDs(albumID))

	s.assert.Nil(s.client.RemoveItemFromCollection(s.ctx, albumID, p1))
	s.assert.Equal([]string{p2}, s.itemIDs(albumID))
	s.assert.Equal([]string{p1}, s.itemIDs(""))
}

func (s *clientTestSuite) TestAddFailures() {
	p1 := s.upload("a.jpg")
	albumID, err := s.client.CreateCollection(s.ctx, "Trips", p1)
	s.assert.Nil(err)

	err = s.client.AddItemToCollection(s.ctx, albumID, "missing")
	s.assert.ErrorIs(err, common.ErrNotFound)

	err = s.client.AddItemToCollection(s.ctx, "nosuchalbum", p1)
	s.assert.ErrorIs(err, common.ErrNotFound)
}

func (s *clientTestSuite) TestRenameItem() {
	id := s.upload("a.jpg")

	s.assert.Nil(s.client.RenameItem(s.ctx, id, "sunset & sea.jpg"))

	items, err := s.client.ListItems(s.ctx, "", 0, 100)
	s.assert.Nil(err)
	s.assert.Len(items, 1)
	s.assert.Equal("sunset & sea.jpg", items[0].Name)

	obj, _ := s.bucket.get(photoKey(id))
	s.assert.Equal(pngBytes, obj.data)
	s.assert.Equal("image/png", obj.contentType)
	s.assert.NotEmpty(obj.metadata[takenKey])

	s.assert.ErrorIs(s.client.RenameItem(s.ctx, "missing", "x.jpg"), common.ErrNotFound)
}

func (s *clientTestSuite) TestRenameCollection() {
	p1 := s.upload("a.jpg")
	albumID, err := s.client.CreateCollection(s.ctx, "Trips", p1)
	s.assert.Nil(err)

	s.assert.Nil(s.client.RenameCollection(s.ctx, albumID, "Travel"))

	albums, err := s.client.ListCollections(s.ctx)
	s.assert.Nil(err)
	s.assert.Len(albums, 1)
	s.assert.Equal("Travel", albums[0].Name)
	s.assert.Equal(1, albums[0].ItemCount)

	s.assert.ErrorIs(s.client.RenameCollection(s.ctx, "nosuchalbum", "x"), common.ErrNotFound)
}

func (s *clientTestSuite) TestDeleteItemLeavesEveryAlbum() {
	p1 := s.upload("a.jpg")
	p2 := s.upload("b.jpg")
	trips, err := s.client.CreateCollection(s.ctx, "Trips", p1)
	s.assert.Nil(err)
	s.assert.Nil(s.client.AddItemToCollection(s.ctx, trips, p2))
	best, err := s.client.CreateCollection(s.ctx, "Best", p1)
	s.assert.Nil(err)

	s.assert.Nil(s.client.DeleteItem(s.ctx, p1))

	_, found := s.bucket.get(photoKey(p1))
	s.assert.False(found)
	s.assert.Equal([]string{p2}, s.itemIDs(trips))
	s.assert.Empty(s.itemIDs(best))

	s.assert.ErrorIs(s.client.DeleteItem(s.ctx, p1), common.ErrNotFound)
}

func (s *clientTestSuite) TestListItemsPaging() {
	for i := 0; i < 3; i++ {
		s.upload(fmt.Sprintf("%d.jpg", i))
	}
	all := s.itemIDs("")
	s.assert.Len(all, 3)
	s.assert.True(sort.StringsAreSorted(all))

	first, err := s.client.ListItems(s.ctx, "", 0, 2)
	s.assert.Nil(err)
	s.assert.Len(first, 2)
	s.assert.Equal(all[0], first[0].ID)

	second, err := s.client.ListItems(s.ctx, "", 1, 2)
	s.assert.Nil(err)
	s.assert.Len(second, 1)
	s.assert.Equal(all[2], second[0].ID)

	beyond, err := s.client.ListItems(s.ctx, "", 2, 2)
	s.assert.Nil(err)
	s.assert.Empty(beyond)
}

func (s *clientTestSuite) TestListItemsSkipsMissingPhoto() {
	p1 := s.upload("a.jpg")
	s.bucket.put(manifestKey("album1"), fmt.Sprintf("title: Trips\nitems:\n- gone\n- %s\n", p1))

	s.assert.Equal([]string{p1}, s.itemIDs("album1"))
}

func (s *clientTestSuite) TestListItemsMissingPhotoKeepsPageFull() {
	p1 := s.upload("a.jpg")
	p2 := s.upload("b.jpg")
	s.bucket.put(manifestKey("album1"), fmt.Sprintf("title: Trips\nitems:\n- gone\n- %s\n- %s\n", p1, p2))

	first, err := s.client.ListItems(s.ctx, "album1", 0, 2)
	s.assert.Nil(err)
	s.assert.Len(first, 2)
	s.assert.True(first[0].Missing)
	s.assert.Equal("gone", first[0].ID)
	s.assert.False(first[1].Missing)
	s.assert.Equal(p1, first[1].ID)

	second, err := s.client.ListItems(s.ctx, "album1", 1, 2)
	s.assert.Nil(err)
	s.assert.Len(second, 1)
	s.assert.Equal(p2, second[0].ID)
	s.assert.Equal("b.jpg", second[0].Name)
}

func (s *clientTestSuite) TestCorruptManifest() {
	s.bucket.put(manifestKey("album1"), "title: [unterminated\n")

	_, err := s.client.ListCollections(s.ctx)
	s.assert.ErrorIs(err, common.ErrRemoteUnavailable)
}

func (s *clientTestSuite) TestAccessDenied() {
	s.bucket.mu.Lock()
	s.bucket.denied = true
	s.bucket.mu.Unlock()

	_, err := s.client.ListCollections(s.ctx)
	s.assert.ErrorIs(err, common.ErrRemoteUnavailable)
}

func (s *clientTestSuite) TestPrefixPath() {
	s.client = s.newClient("alice")
	id := s.upload("a.jpg")

	_, found := s.bucket.get("alice/" + photoKey(id))
	s.assert.True(found)

	albumID, err := s.client.CreateCollection(s.ctx, "Trips", id)
	s.assert.Nil(err)
	_, found = s.bucket.get("alice/" + manifestKey(albumID))
	s.assert.True(found)

	albums, err := s.client.ListCollections(s.ctx)
	s.assert.Nil(err)
	s.assert.Len(albums, 1)
	s.assert.Equal([]string{id}, s.itemIDs(albumID))

	// a client without the prefix sees none of it
	albums, err = s.newClient("").ListCollections(s.ctx)
	s.assert.Nil(err)
	s.assert.Empty(albums)
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(clientTestSuite))
}
