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
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Seagate/photofuse/common"
	"github.com/Seagate/photofuse/common/config"
	"github.com/Seagate/photofuse/common/log"
	"github.com/Seagate/photofuse/internal"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// fakeConnection : photo calls go to the gomock service, bookkeeping is recorded
type fakeConnection struct {
	*internal.MockPhotoService
	updated *Config
	testErr error
}

func (f *fakeConnection) Configure(cfg Config) error { return nil }

func (f *fakeConnection) UpdateConfig(cfg Config) error {
	f.updated = &cfg
	return nil
}

func (f *fakeConnection) TestConnection(ctx context.Context) error { return f.testErr }

type s3PhotosTestSuite struct {
	suite.Suite
	assert   *assert.Assertions
	mockCtrl *gomock.Controller
	mock     *internal.MockPhotoService
	conn     *fakeConnection
	s3       *S3Photos
	ctx      context.Context
}

const s3TestConfig = `
s3photos:
  bucket-name: holiday-photos
  key-id: testKeyId
  secret-key: testSecretKey
  region: us-west-2
  endpoint: http://localhost:9000
  use-path-style: true
  subdirectory: alice
`

func newTestS3Photos(configuration string) (*S3Photos, error) {
	config.ResetConfig()
	_ = config.ReadConfigFromReader(strings.NewReader(configuration))
	s3 := NewS3PhotosComponent()
	err := s3.Configure(true)
	return s3.(*S3Photos), err
}

func (s *s3PhotosTestSuite) SetupTest() {
	err := log.SetDefaultLogger("silent", common.LogConfig{})
	if err != nil {
		panic("Unable to set silent logger as default.")
	}
	s.assert = assert.New(s.T())
	s.ctx = context.Background()

	s.s3, err = newTestS3Photos(s3TestConfig)
	s.assert.Nil(err)

	s.mockCtrl = gomock.NewController(s.T())
	s.mock = internal.NewMockPhotoService(s.mockCtrl)
	s.conn = &fakeConnection{MockPhotoService: s.mock}
	s.s3.storage = s.conn
}

func (s *s3PhotosTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *s3PhotosTestSuite) TestDefault() {
	s.assert.Equal(compName, s.s3.Name())
	s.assert.Equal(internal.EComponentPriority.Consumer(), s.s3.Priority())
	s.assert.Equal("holiday-photos", s.s3.stConfig.authConfig.BucketName)
	s.assert.Equal("alice", s.s3.stConfig.prefixPath)
	s.assert.True(s.s3.stConfig.usePathStyle)
}

func (s *s3PhotosTestSuite) TestConfigureBuildsClient() {
	s3, err := newTestS3Photos(s3TestConfig)
	s.assert.Nil(err)

	cl, ok := s3.storage.(*Client)
	s.assert.True(ok)
	s.assert.NotNil(cl.awsS3Client)
	s.assert.NotNil(cl.presigner)
	s.assert.NotNil(cl.uploader)
}

func (s *s3PhotosTestSuite) TestConfigureNoBucket() {
	_, err := newTestS3Photos("s3photos:\n  key-id: k\n  secret-key: s\n")
	s.assert.NotNil(err)
	s.assert.Contains(err.Error(), "bucket")
}

func (s *s3PhotosTestSuite) TestPresignedURIUsesEndpoint() {
	s3, err := newTestS3Photos(s3TestConfig)
	s.assert.Nil(err)
	cl := s3.storage.(*Client)

	uri, err := cl.presignGet(s.ctx, photoKey("abc"))
	s.assert.Nil(err)
	s.assert.True(strings.HasPrefix(uri, "http://localhost:9000/"))
	s.assert.Contains(uri, "alice/photos/abc")
	s.assert.Contains(uri, "X-Amz-Expires=21600")
}

func (s *s3PhotosTestSuite) TestStartChecksBucket() {
	s.assert.Nil(s.s3.Start(s.ctx))

	s.conn.testErr = common.ErrRemoteUnavailable
	err := s.s3.Start(s.ctx)
	s.assert.ErrorIs(err, common.ErrRemoteUnavailable)
}

func (s *s3PhotosTestSuite) TestOnConfigChange() {
	_ = config.ReadConfigFromReader(strings.NewReader(s3TestConfig + "  presign-expiry-sec: 120\n"))
	s.s3.OnConfigChange()

	s.assert.NotNil(s.conn.updated)
	s.assert.Equal(120*time.Second, s.conn.updated.presignExpiry)
}

func (s *s3PhotosTestSuite) TestOnConfigChangeInvalid() {
	_ = config.ReadConfigFromReader(strings.NewReader("s3photos:\n  key-id: k\n"))
	s.s3.OnConfigChange()

	s.assert.Nil(s.conn.updated)
}

func (s *s3PhotosTestSuite) TestDelegates() {
	albums := []internal.RemoteCollection{{Name: "Trips", ID: "a1", ItemCount: 2}}
	photos := []internal.RemoteItem{{Name: "beach.jpg", ID: "p1"}}

	gomock.InOrder(
		s.mock.EXPECT().ListCollections(s.ctx).Return(albums, nil),
		s.mock.EXPECT().ListItems(s.ctx, "a1", 1, 50).Return(photos, nil),
		s.mock.EXPECT().RenameItem(s.ctx, "p1", "sand.jpg").Return(nil),
		s.mock.EXPECT().RenameCollection(s.ctx, "a1", "Travel").Return(nil),
		s.mock.EXPECT().CreateCollection(s.ctx, "New", "p1").Return("a2", nil),
		s.mock.EXPECT().AddItemToCollection(s.ctx, "a2", "p2").Return(nil),
		s.mock.EXPECT().RemoveItemFromCollection(s.ctx, "a1", "p1").Return(nil),
		s.mock.EXPECT().Upload(s.ctx, "/tmp/x.jpg", "x.jpg").Return("p3", nil),
		s.mock.EXPECT().DeleteItem(s.ctx, "p3").Return(errors.New("boom")),
	)

	gotAlbums, err := s.s3.ListCollections(s.ctx)
	s.assert.Nil(err)
	s.assert.Equal(albums, gotAlbums)

	gotPhotos, err := s.s3.ListItems(s.ctx, "a1", 1, 50)
	s.assert.Nil(err)
	s.assert.Equal(photos, gotPhotos)

	s.assert.Nil(s.s3.RenameItem(s.ctx, "p1", "sand.jpg"))
	s.assert.Nil(s.s3.RenameCollection(s.ctx, "a1", "Travel"))

	id, err := s.s3.CreateCollection(s.ctx, "New", "p1")
	s.assert.Nil(err)
	s.assert.Equal("a2", id)

	s.assert.Nil(s.s3.AddItemToCollection(s.ctx, "a2", "p2"))
	s.assert.Nil(s.s3.RemoveItemFromCollection(s.ctx, "a1", "p1"))

	id, err = s.s3.Upload(s.ctx, "/tmp/x.jpg", "x.jpg")
	s.assert.Nil(err)
	s.assert.Equal("p3", id)

	s.assert.NotNil(s.s3.DeleteItem(s.ctx, "p3"))
}

func TestS3PhotosTestSuite(t *testing.T) {
	suite.Run(t, new(s3PhotosTestSuite))
}
