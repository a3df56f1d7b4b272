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

package handlemap

import (
	"os"
	"sync"

	"github.com/Seagate/photofuse/common"

	"go.uber.org/atomic"
)

type HandleID uint64

const InvalidHandleID HandleID = 0

// Flags represented in common.BitMap16 for various properties of the handle
const (
	HandleFlagUnknown uint16 = iota
	HandleFlagDirty          // data written or truncated through this handle
	HandleFlagReadOnly
)

// Handle : an open photo, backed by its scratch copy
type Handle struct {
	sync.RWMutex
	FObj       *os.File
	ID         HandleID
	Size       int64 // as far as this handle has seen
	Flags      common.BitMap16
	Path       string // "/album/photo" as the kernel sent it
	Collection string
	Item       string
	LocalPath  string
}

// NewHandle : Create a new handle for the given path
func NewHandle(path string, collection string, item string) *Handle {
	return &Handle{
		ID:         InvalidHandleID,
		Path:       path,
		Collection: collection,
		Item:       item,
		Size:       0,
		Flags:      0,
	}
}

// Dirty : Handle is dirty or not
func (handle *Handle) Dirty() bool {
	handle.RLock()
	defer handle.RUnlock()
	return handle.Flags.IsSet(HandleFlagDirty)
}

// SetDirty : mark the handle dirty
func (handle *Handle) SetDirty() {
	handle.Lock()
	defer handle.Unlock()
	handle.Flags.Set(HandleFlagDirty)
}

// Grow : remember the furthest byte written
func (handle *Handle) Grow(end int64) int64 {
	handle.Lock()
	defer handle.Unlock()
	if end > handle.Size {
		handle.Size = end
	}
	return handle.Size
}

// SetSize : truncate
func (handle *Handle) SetSize(size int64) {
	handle.Lock()
	defer handle.Unlock()
	handle.Size = size
}

// Cleanup : close the backing file
func (handle *Handle) Cleanup() error {
	handle.Lock()
	defer handle.Unlock()
	if handle.FObj == nil {
		return nil
	}
	err := handle.FObj.Close()
	handle.FObj = nil
	return err
}

// defaultHandleMap holds a synchronized map[ HandleID ]*Handle
var defaultHandleMap sync.Map
var nextHandleID = atomic.NewUint64(uint64(InvalidHandleID))

// Add : Add the newly created handle to map and allocate a handle id
func Add(handle *Handle) HandleID {
	handle.ID = HandleID(nextHandleID.Inc())
	defaultHandleMap.Store(handle.ID, handle)
	return handle.ID
}

// Delete : Remove handle object from map
func Delete(key HandleID) {
	defaultHandleMap.Delete(key)
}

// Load : Search the handle object from map
func Load(key HandleID) (*Handle, bool) {
	val, ok := defaultHandleMap.Load(key)
	if !ok {
		return nil, false
	}
	return val.(*Handle), true
}

// Count : open handles
func Count() int {
	count := 0
	defaultHandleMap.Range(func(_, _ interface{}) bool {
		count++
		return true
	})
	return count
}
