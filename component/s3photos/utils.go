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
	"net/url"
	"strings"

	"github.com/Seagate/photofuse/common"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/pkg/errors"
)

const (
	photoPrefix    = "photos/"
	albumPrefix    = "albums/"
	manifestSuffix = ".yaml"

	// user metadata keys on photo objects
	titleKey = "title"
	takenKey = "taken"
)

// parseS3Err : map an SDK error onto the catalog error the cache layer matches on
func parseS3Err(err error, attemptedAction string) error {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return errors.Wrap(common.ErrNotFound, attemptedAction)
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return errors.Wrap(common.ErrNotFound, attemptedAction)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return errors.Wrap(common.ErrNotFound, attemptedAction)
		case "NoSuchBucket":
			return errors.Wrapf(common.ErrRemoteUnavailable, "%s [bucket missing]", attemptedAction)
		}
	}

	return errors.Wrapf(common.ErrRemoteUnavailable, "%s [%s]", attemptedAction, err.Error())
}

// split : strip the mount prefix from an object key
func split(prefixPath string, key string) string {
	if prefixPath == "" {
		return key
	}
	return strings.TrimPrefix(strings.TrimPrefix(key, prefixPath), "/")
}

func (cl *Client) getKey(name string) string {
	if cl.Config.prefixPath == "" {
		return name
	}
	return common.JoinUnixFilepath(cl.Config.prefixPath, name)
}

func photoKey(id string) string {
	return photoPrefix + id
}

func manifestKey(id string) string {
	return albumPrefix + id + manifestSuffix
}

// idFromKey : "photos/<id>" or "albums/<id>.yaml" -> "<id>"
func idFromKey(key string, prefix string, suffix string) (string, bool) {
	if !strings.HasPrefix(key, prefix) || !strings.HasSuffix(key, suffix) {
		return "", false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(key, prefix), suffix)
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

// pageWindow : bounds of page (zero based) over n sorted entries
func pageWindow(n int, page int, perPage int) (int, int) {
	if perPage <= 0 || page < 0 {
		return 0, 0
	}
	start := page * perPage
	if start >= n {
		return n, n
	}
	end := start + perPage
	if end > n {
		end = n
	}
	return start, end
}

// metadata values travel as HTTP headers, keep them ASCII
func encodeTitle(title string) string {
	return url.QueryEscape(title)
}

func decodeTitle(value string) string {
	title, err := url.QueryUnescape(value)
	if err != nil {
		return value
	}
	return title
}
