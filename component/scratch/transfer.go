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

package scratch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Seagate/photofuse/common"
	"github.com/Seagate/photofuse/common/log"
)

// download : GET uri into localPath. The body lands in a temp file first so a
// failed transfer never leaves a truncated photo behind.
func (sc *Scratch) download(ctx context.Context, uri string, localPath string) error {
	log.Debug("Scratch::download : %s", localPath)

	err := os.MkdirAll(filepath.Dir(localPath), 0700)
	if err != nil {
		return mapLocalErr(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return fmt.Errorf("bad source uri [%s]: %w", err.Error(), common.ErrRemoteUnavailable)
	}
	resp, err := sc.client.Do(req)
	if err != nil {
		log.Err("Scratch::download : GET for %s failed [%s]", localPath, err.Error())
		return fmt.Errorf("download [%s]: %w", err.Error(), common.ErrRemoteUnavailable)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("download [%s]: %w", resp.Status, common.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		log.Err("Scratch::download : GET for %s returned %s", localPath, resp.Status)
		return fmt.Errorf("download [%s]: %w", resp.Status, common.ErrRemoteUnavailable)
	}

	tmp, err := os.CreateTemp(filepath.Dir(localPath), ".part-*")
	if err != nil {
		return mapLocalErr(err)
	}
	_, err = io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		log.Err("Scratch::download : writing %s failed [%s]", localPath, err.Error())
		return mapLocalErr(err)
	}

	err = os.Rename(tmp.Name(), localPath)
	if err != nil {
		_ = os.Remove(tmp.Name())
		return mapLocalErr(err)
	}
	return nil
}

// ContentLength : size of the photo behind uri without fetching it.
// Presigned urls are bound to GET, so this asks for the first byte and reads the
// total from Content-Range, falling back to Content-Length for servers that ignore ranges.
func (sc *Scratch) ContentLength(ctx context.Context, uri string) (int64, error) {
	log.Trace("Scratch::ContentLength")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return common.SizeUnknown, fmt.Errorf("bad source uri [%s]: %w", err.Error(), common.ErrRemoteUnavailable)
	}
	req.Header.Set("Range", "bytes=0-0")

	resp, err := sc.client.Do(req)
	if err != nil {
		return common.SizeUnknown, fmt.Errorf("size lookup [%s]: %w", err.Error(), common.ErrRemoteUnavailable)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusPartialContent:
		size, ok := parseContentRange(resp.Header.Get("Content-Range"))
		if ok {
			return size, nil
		}
	case http.StatusOK:
		if resp.ContentLength >= 0 {
			return resp.ContentLength, nil
		}
	case http.StatusRequestedRangeNotSatisfiable:
		// only an empty object has no first byte
		return 0, nil
	case http.StatusNotFound:
		return common.SizeUnknown, fmt.Errorf("size lookup [%s]: %w", resp.Status, common.ErrNotFound)
	}
	return common.SizeUnknown, fmt.Errorf("size lookup [%s]: %w", resp.Status, common.ErrRemoteUnavailable)
}

// parseContentRange : "bytes 0-0/12345" -> 12345
func parseContentRange(value string) (int64, bool) {
	slash := strings.LastIndex(value, "/")
	if slash < 0 || !strings.HasPrefix(value, "bytes ") {
		return 0, false
	}
	size, err := strconv.ParseInt(value[slash+1:], 10, 64)
	if err != nil || size < 0 {
		return 0, false
	}
	return size, true
}
