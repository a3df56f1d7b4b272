//go:build linux

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
	"golang.org/x/sys/unix"
)

// Statfs_t : capacity of the filesystem backing scratch
type Statfs_t struct {
	Blocks  uint64
	Bavail  uint64
	Bfree   uint64
	Bsize   int64
	Frsize  int64
	Files   uint64
	Ffree   uint64
	Namemax uint64
}

// StatFs : report the scratch filesystem, which bounds how much can be written before upload
func (sc *Scratch) StatFs() (*Statfs_t, error) {
	var st unix.Statfs_t
	err := unix.Statfs(sc.path, &st)
	if err != nil {
		return nil, mapLocalErr(err)
	}

	return &Statfs_t{
		Blocks:  st.Blocks,
		Bavail:  st.Bavail,
		Bfree:   st.Bfree,
		Bsize:   int64(st.Bsize),
		Frsize:  int64(st.Frsize),
		Files:   st.Files,
		Ffree:   st.Ffree,
		Namemax: uint64(st.Namelen),
	}, nil
}
