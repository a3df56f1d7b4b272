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
	"errors"
	"net/http"
	"strconv"
	"testing"

	"github.com/Seagate/photofuse/common"

	awsHttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyHttp "github.com/aws/smithy-go/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type utilsTestSuite struct {
	suite.Suite
}

func (s *utilsTestSuite) TestParseS3errGetObjectNoSuchKey() {
	assert := assert.New(s.T())

	errMessage := "No Such Key"
	getObjectS3Err := generateS3Error("GetObject", 404, &types.NoSuchKey{
		Message: &errMessage,
	})
	err := parseS3Err(getObjectS3Err, "test")
	assert.ErrorIs(err, common.ErrNotFound)
	assert.Contains(err.Error(), "test")
}

func (s *utilsTestSuite) TestParseS3errHeadObjectNotFound() {
	assert := assert.New(s.T())

	getObjectS3Err := generateS3Error("HeadObject", 404, &smithy.GenericAPIError{
		Message: "Not Found",
		Code:    "NotFound",
		Fault:   smithy.FaultClient,
	})
	err := parseS3Err(getObjectS3Err, "test")
	assert.ErrorIs(err, common.ErrNotFound)
}

func (s *utilsTestSuite) TestParseS3errCopyObjectNoSuchKey() {
	assert := assert.New(s.T())

	getObjectS3Err := generateS3Error("CopyObject", 404, &smithy.GenericAPIError{
		Message: "No Such Key",
		Code:    "NoSuchKey",
		Fault:   smithy.FaultClient,
	})
	err := parseS3Err(getObjectS3Err, "test")
	assert.ErrorIs(err, common.ErrNotFound)
}

func (s *utilsTestSuite) TestParseS3errNoSuchBucket() {
	assert := assert.New(s.T())

	headBucketErr := generateS3Error("HeadBucket", 404, &smithy.GenericAPIError{
		Message: "No Such Bucket",
		Code:    "NoSuchBucket",
		Fault:   smithy.FaultClient,
	})
	err := parseS3Err(headBucketErr, "test")
	assert.ErrorIs(err, common.ErrRemoteUnavailable)
	assert.False(errors.Is(err, common.ErrNotFound))
}

func (s *utilsTestSuite) TestParseS3errOtherFailure() {
	assert := assert.New(s.T())

	throttled := generateS3Error("ListObjectsV2", 503, &smithy.GenericAPIError{
		Message: "Slow Down",
		Code:    "SlowDown",
		Fault:   smithy.FaultServer,
	})
	err := parseS3Err(throttled, "test")
	assert.ErrorIs(err, common.ErrRemoteUnavailable)
	assert.Contains(err.Error(), "SlowDown")

	err = parseS3Err(errors.New("connection reset"), "test")
	assert.ErrorIs(err, common.ErrRemoteUnavailable)
}

func generateS3Error(operation string, httpStatusCode int, apiErr error) *smithy.OperationError {
	return &smithy.OperationError{
		ServiceID:     "S3",
		OperationName: operation,
		Err: &awsHttp.ResponseError{
			RequestID: "",
			ResponseError: &smithyHttp.ResponseError{
				Response: &smithyHttp.Response{
					Response: &http.Response{
						Status:     strconv.Itoa(httpStatusCode),
						StatusCode: httpStatusCode,
					},
				},
				Err: apiErr,
			},
		},
	}
}

func (s *utilsTestSuite) TestSplit() {
	assert := assert.New(s.T())

	assert.Equal("photos/abc", split("", "photos/abc"))
	assert.Equal("photos/abc", split("account", "account/photos/abc"))
	assert.Equal("albums/x.yaml", split("a/b", "a/b/albums/x.yaml"))
}

func (s *utilsTestSuite) TestGetKey() {
	assert := assert.New(s.T())

	cl := &Client{}
	assert.Equal("photos/abc", cl.getKey(photoKey("abc")))

	cl.Config.prefixPath = "account"
	assert.Equal("account/albums/abc.yaml", cl.getKey(manifestKey("abc")))
}

func (s *utilsTestSuite) TestIDFromKey() {
	assert := assert.New(s.T())

	id, ok := idFromKey("albums/abc.yaml", albumPrefix, manifestSuffix)
	assert.True(ok)
	assert.Equal("abc", id)

	id, ok = idFromKey("photos/abc", photoPrefix, "")
	assert.True(ok)
	assert.Equal("abc", id)

	_, ok = idFromKey("albums/abc.json", albumPrefix, manifestSuffix)
	assert.False(ok)
	_, ok = idFromKey("photos/", photoPrefix, "")
	assert.False(ok)
	_, ok = idFromKey("photos/nested/abc", photoPrefix, "")
	assert.False(ok)
}

func (s *utilsTestSuite) TestPageWindow() {
	assert := assert.New(s.T())

	start, end := pageWindow(250, 0, 100)
	assert.Equal(0, start)
	assert.Equal(100, end)

	start, end = pageWindow(250, 2, 100)
	assert.Equal(200, start)
	assert.Equal(250, end)

	start, end = pageWindow(250, 3, 100)
	assert.Equal(start, end)

	start, end = pageWindow(10, 0, 0)
	assert.Equal(start, end)
}

func (s *utilsTestSuite) TestTitleEncoding() {
	assert := assert.New(s.T())

	for _, title := range []string{"beach.jpg", "Été 2019 ★.jpg", "a b+c%d.png", ""} {
		encoded := encodeTitle(title)
		for _, r := range encoded {
			assert.Less(r, rune(128))
		}
		assert.Equal(title, decodeTitle(encoded))
	}

	// values written by other tools pass through
	assert.Equal("100%", decodeTitle("100%"))
}

func TestUtilsTestSuite(t *testing.T) {
	suite.Run(t, new(utilsTestSuite))
}
