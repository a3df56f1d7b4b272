//go:build fuse3

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

package libfuse

import (
	"fmt"

	"github.com/Seagate/photofuse/common/log"

	"github.com/winfsp/cgofuse/fuse"
)

// createFuseOptions : the comma separated -o list for fuse3, which has no nonempty or max_background
func (lf *Libfuse) createFuseOptions(host *fuse.FileSystemHost) string {
	if lf.nonEmptyMount {
		log.Info("createFuseOptions : nonempty is implied with fuse3")
	}
	log.Debug("createFuseOptions : %d fuse threads requested", lf.maxFuseThreads)

	attr, entry, negative := lf.kernelTimeouts()
	options := fmt.Sprintf("fsname=photofuse,uid=%d,gid=%d", lf.ownerUID, lf.ownerGID)
	options += fmt.Sprintf(",attr_timeout=%d,entry_timeout=%d,negative_timeout=%d", attr, entry, negative)

	if host != nil {
		// readdir plus lets album listings return attributes in one round trip
		host.SetCapReaddirPlus(true)
	}

	if lf.allowOther {
		options += ",allow_other"
	}
	if lf.allowRoot {
		options += ",allow_root"
	}
	if lf.readOnly {
		options += ",ro"
	}

	if lf.umask != 0 {
		options += fmt.Sprintf(",umask=%04d", lf.umask)
	}

	// direct_io bypasses the page cache, a rewritten photo is visible at once
	if lf.directIO {
		if host != nil {
			host.SetDirectIO(true)
		}
	} else {
		options += ",kernel_cache"
	}
	return options
}
