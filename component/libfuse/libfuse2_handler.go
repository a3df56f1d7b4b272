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
	"errors"
	"io"
	"os"
	"syscall"
	"time"

	"github.com/Seagate/photofuse/common"
	"github.com/Seagate/photofuse/common/log"
	"github.com/Seagate/photofuse/internal"
	"github.com/Seagate/photofuse/internal/handlemap"

	"github.com/winfsp/cgofuse/fuse"
)

type cgofuseFS struct {
	fuse.FileSystemBase
	uid uint32
	gid uint32
}

// cgofuse passes ^uint64(0) when the kernel has no handle for the call
const noHandle = ^uint64(0)

// Verification that the handler satisfies the cgofuse callbacks
var _ fuse.FileSystemInterface = (*cgofuseFS)(nil)

// fuseErrno : translate catalog and scratch errors for the kernel
func fuseErrno(err error) int {
	switch common.ToErrno(err) {
	case 0:
		return 0
	case syscall.ENOENT:
		return -fuse.ENOENT
	case syscall.EEXIST:
		return -fuse.EEXIST
	case syscall.ENOSPC:
		return -fuse.ENOSPC
	default:
		return -fuse.EIO
	}
}

func isRoot(path string) bool {
	name := common.NormalizeObjectName(path)
	return name == "" || name == "/"
}

func (lf *Libfuse) fillStat(md internal.Metadata, stbuf *fuse.Stat_t) {
	stbuf.Uid = lf.ownerUID
	stbuf.Gid = lf.ownerGID
	stbuf.Nlink = 1
	stbuf.Size = md.Size
	if md.Size < 0 {
		stbuf.Size = 0
	}

	if md.IsCollection {
		stbuf.Nlink = 2
		stbuf.Size = 4096
		stbuf.Mode = uint32(lf.dirPermission)&0xffffffff | fuse.S_IFDIR
	} else {
		stbuf.Mode = uint32(lf.filePermission)&0xffffffff | fuse.S_IFREG
	}

	mtime := fuse.NewTimespec(md.ModTime)
	stbuf.Atim = mtime
	stbuf.Ctim = mtime
	stbuf.Mtim = mtime
	stbuf.Birthtim = mtime
}

func (lf *Libfuse) fillRootStat(stbuf *fuse.Stat_t) {
	lf.fillStat(internal.Metadata{IsCollection: true, ModTime: time.Now()}, stbuf)
}

func (lf *Libfuse) initFuse() error {
	log.Trace("Libfuse::initFuse : Initializing FUSE")

	cf := NewcgofuseFS()
	cf.uid = lf.ownerUID
	cf.gid = lf.ownerGID

	lf.host = fuse.NewFileSystemHost(cf)

	opts := []string{"-o", lf.createFuseOptions(lf.host)}
	if lf.traceEnable {
		opts = append(opts, "-d")
	}

	// blocks until the mount point is unmounted or the process is signalled
	ret := lf.host.Mount(lf.mountPath, opts)
	if !ret {
		log.Err("Libfuse::initFuse : failed to mount fuse on %s", lf.mountPath)
		return errors.New("failed to mount fuse")
	}
	lf.host = nil
	return nil
}

func (lf *Libfuse) destroyFuse() error {
	log.Trace("Libfuse::destroyFuse : Destroying FUSE")
	if !lf.host.Unmount() {
		log.Warn("Libfuse::destroyFuse : %s was not mounted", lf.mountPath)
	}
	return nil
}

func NewcgofuseFS() *cgofuseFS {
	cf := &cgofuseFS{}
	return cf
}

func (cf *cgofuseFS) Init() {
	log.Trace("Libfuse::Init : Initializing FUSE")
	log.Crit("Libfuse::Init : %s mounted", fuseFS.mountPath)
	notifyParent()
}

func (cf *cgofuseFS) Destroy() {
	log.Trace("Libfuse::Destroy : Destroy")
}

// Getattr : albums at the top level win over uncategorized photos of the same name
func (cf *cgofuseFS) Getattr(path string, stat *fuse.Stat_t, fh uint64) int {
	if isRoot(path) {
		fuseFS.fillRootStat(stat)
		return 0
	}

	collection, item := common.SplitPhotoPath(path)
	log.Trace("Libfuse::Getattr : %s", path)

	if collection == "" {
		md, err := fuseFS.catalog.LookupCollection(fuseFS.ctx, item)
		if err == nil {
			fuseFS.fillStat(md, stat)
			return 0
		}
		if !errors.Is(err, common.ErrNotFound) {
			log.Err("Libfuse::Getattr : failed to lookup album %s [%s]", item, err.Error())
			return fuseErrno(err)
		}
	}

	md, err := fuseFS.catalog.LookupItem(fuseFS.ctx, collection, item)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			log.Err("Libfuse::Getattr : failed to lookup %s [%s]", path, err.Error())
		}
		return fuseErrno(err)
	}

	if fh != noHandle {
		if handle, found := handlemap.Load(handlemap.HandleID(fh)); found && handle.Dirty() {
			handle.RLock()
			md.Size = handle.Size
			handle.RUnlock()
		}
	}

	if md.Size == common.SizeUnknown && md.SourceURI != "" {
		md.Size = cf.resolveSize(collection, item, md.SourceURI)
	}

	fuseFS.fillStat(md, stat)
	return 0
}

// resolveSize : the listing carries no sizes, ask the transfer side once and remember it
func (cf *cgofuseFS) resolveSize(collection string, item string, uri string) int64 {
	size, err := fuseFS.scratch.ContentLength(fuseFS.ctx, uri)
	if err != nil {
		log.Warn("Libfuse::resolveSize : size of %s/%s unknown [%s]", collection, item, err.Error())
		return 0
	}
	err = fuseFS.catalog.SetItemSize(fuseFS.ctx, collection, item, size)
	if err != nil {
		log.Warn("Libfuse::resolveSize : failed to record size of %s/%s [%s]", collection, item, err.Error())
	}
	return size
}

func (cf *cgofuseFS) Opendir(path string) (int, uint64) {
	log.Trace("Libfuse::Opendir : %s", path)

	if isRoot(path) {
		return 0, 0
	}
	collection, name := common.SplitPhotoPath(path)
	if collection != "" {
		return -fuse.ENOENT, noHandle
	}
	_, err := fuseFS.catalog.LookupCollection(fuseFS.ctx, name)
	if err != nil {
		return fuseErrno(err), noHandle
	}
	return 0, 0
}

func (cf *cgofuseFS) Releasedir(path string, fh uint64) int {
	log.Trace("Libfuse::Releasedir : %s", path)
	return 0
}

// Readdir : the root holds uncategorized photos and the albums, an album holds its photos
func (cf *cgofuseFS) Readdir(path string, fill func(name string, stat *fuse.Stat_t, ofst int64) bool, ofst int64, fh uint64) int {
	log.Trace("Libfuse::Readdir : %s", path)

	var names []string
	var err error
	if isRoot(path) {
		names, err = fuseFS.catalog.ListItemNames(fuseFS.ctx, common.UncategorizedName)
		if err == nil {
			var albums []string
			albums, err = fuseFS.catalog.ListCollectionNames(fuseFS.ctx)
			names = append(names, albums...)
		}
	} else {
		_, collection := common.SplitPhotoPath(path)
		names, err = fuseFS.catalog.ListItemNames(fuseFS.ctx, collection)
	}
	if err != nil {
		log.Err("Libfuse::Readdir : failed to list %s [%s]", path, err.Error())
		return fuseErrno(err)
	}

	fill(".", nil, 0)
	fill("..", nil, 0)
	for _, name := range names {
		if !fill(name, nil, 0) {
			break
		}
	}
	return 0
}

// Mkdir : albums are the only directories
func (cf *cgofuseFS) Mkdir(path string, mode uint32) int {
	collection, name := common.SplitPhotoPath(path)
	log.Trace("Libfuse::Mkdir : %s", path)

	if collection != "" {
		log.Err("Libfuse::Mkdir : albums cannot be nested [%s]", path)
		return -fuse.EPERM
	}

	err := fuseFS.catalog.CreateEmptyCollection(fuseFS.ctx, name)
	if err != nil {
		log.Err("Libfuse::Mkdir : Failed to create %s [%s]", name, err.Error())
		return fuseErrno(err)
	}
	return 0
}

func (cf *cgofuseFS) Rmdir(path string) int {
	log.Trace("Libfuse::Rmdir : %s", path)
	// the photo service keeps albums until their last photo is gone
	return -fuse.EPERM
}

func (cf *cgofuseFS) Statfs(path string, stat *fuse.Statfs_t) int {
	log.Trace("Libfuse::Statfs : %s", path)

	attr, err := fuseFS.scratch.StatFs()
	if err != nil {
		log.Err("Libfuse::Statfs : Failed to get stats %s [%s]", path, err.Error())
		return fuseErrno(err)
	}

	stat.Bsize = uint64(attr.Bsize)
	stat.Frsize = uint64(attr.Frsize)
	stat.Blocks = attr.Blocks
	stat.Bavail = attr.Bavail
	stat.Bfree = attr.Bfree
	stat.Files = attr.Files
	stat.Ffree = attr.Ffree
	stat.Namemax = attr.Namemax
	return 0
}

// openHandle : open the scratch copy and register the handle
func (cf *cgofuseFS) openHandle(path string, collection string, item string, localPath string, flags int) (int, uint64) {
	fObj, err := os.OpenFile(localPath, flags, os.FileMode(fuseFS.filePermission)&0600|0600)
	if err != nil {
		log.Err("Libfuse::openHandle : failed to open %s [%s]", localPath, err.Error())
		fuseFS.scratch.Release(collection, item, false)
		return -fuse.EIO, noHandle
	}

	handle := handlemap.NewHandle(path, collection, item)
	handle.FObj = fObj
	handle.LocalPath = localPath
	if info, err := fObj.Stat(); err == nil {
		handle.Size = info.Size()
	}
	if flags&(os.O_WRONLY|os.O_RDWR) == 0 {
		handle.Flags.Set(handlemap.HandleFlagReadOnly)
	}
	if flags&os.O_TRUNC != 0 {
		handle.SetDirty()
	}

	fh := handlemap.Add(handle)
	log.Debug("Libfuse::openHandle : %s fh %d", path, fh)
	return 0, uint64(fh)
}

// Create : a new photo exists only in scratch until its first release
func (cf *cgofuseFS) Create(path string, flags int, mode uint32) (int, uint64) {
	collection, item := common.SplitPhotoPath(path)
	log.Trace("Libfuse::Create : %s", path)

	err := fuseFS.catalog.CreateEmptyItem(fuseFS.ctx, collection, item)
	if err != nil {
		log.Err("Libfuse::Create : Failed to create %s [%s]", path, err.Error())
		return fuseErrno(err), noHandle
	}

	localPath, err := fuseFS.scratch.Materialize(fuseFS.ctx, "", collection, item)
	if err != nil {
		log.Err("Libfuse::Create : no scratch copy for %s [%s]", path, err.Error())
		return fuseErrno(err), noHandle
	}

	return cf.openHandle(path, collection, item, localPath, os.O_RDWR|os.O_TRUNC)
}

// Open : fetch the photo into scratch unless a fresh copy is there
func (cf *cgofuseFS) Open(path string, flags int) (int, uint64) {
	collection, item := common.SplitPhotoPath(path)
	log.Trace("Libfuse::Open : %s, flags 0x%X", path, flags)

	if fuseFS.readOnly && flags&(os.O_WRONLY|os.O_RDWR) != 0 {
		return -fuse.EROFS, noHandle
	}

	md, err := fuseFS.catalog.LookupItem(fuseFS.ctx, collection, item)
	if err != nil {
		return fuseErrno(err), noHandle
	}

	localPath, err := fuseFS.scratch.Materialize(fuseFS.ctx, md.SourceURI, collection, item)
	if err != nil {
		log.Err("Libfuse::Open : failed to fetch %s [%s]", path, err.Error())
		return fuseErrno(err), noHandle
	}

	openFlags := flags & (os.O_RDONLY | os.O_WRONLY | os.O_RDWR | os.O_APPEND | os.O_TRUNC)
	ret, fh := cf.openHandle(path, collection, item, localPath, openFlags)
	if ret == 0 && openFlags&os.O_TRUNC != 0 {
		cf.markDirty(collection, item)
	}
	return ret, fh
}

func (cf *cgofuseFS) markDirty(collection string, item string) {
	err := fuseFS.catalog.SetItemDirty(fuseFS.ctx, collection, item, true)
	if err != nil {
		log.Warn("Libfuse::markDirty : %s/%s [%s]", collection, item, err.Error())
	}
}

func (cf *cgofuseFS) Read(path string, buff []byte, ofst int64, fh uint64) int {
	handle, found := handlemap.Load(handlemap.HandleID(fh))
	if !found {
		log.Err("Libfuse::Read : invalid handle %d for %s", fh, path)
		return -fuse.EBADF
	}

	handle.RLock()
	defer handle.RUnlock()
	n, err := handle.FObj.ReadAt(buff, ofst)
	if err != nil && err != io.EOF {
		log.Err("Libfuse::Read : error reading %s at %d [%s]", path, ofst, err.Error())
		return -fuse.EIO
	}
	return n
}

// Write : the first write marks the photo dirty so the sweeper keeps it
func (cf *cgofuseFS) Write(path string, buff []byte, ofst int64, fh uint64) int {
	handle, found := handlemap.Load(handlemap.HandleID(fh))
	if !found {
		log.Err("Libfuse::Write : invalid handle %d for %s", fh, path)
		return -fuse.EBADF
	}
	if handle.Flags.IsSet(handlemap.HandleFlagReadOnly) {
		return -fuse.EBADF
	}

	if !handle.Dirty() {
		cf.markDirty(handle.Collection, handle.Item)
		handle.SetDirty()
	}

	n, err := handle.FObj.WriteAt(buff, ofst)
	if err != nil {
		log.Err("Libfuse::Write : error writing %s at %d [%s]", path, ofst, err.Error())
		return fuseErrno(err)
	}

	size := handle.Grow(ofst + int64(n))
	err = fuseFS.catalog.SetItemSize(fuseFS.ctx, handle.Collection, handle.Item, size)
	if err != nil {
		log.Warn("Libfuse::Write : failed to record size of %s [%s]", path, err.Error())
	}
	return n
}

func (cf *cgofuseFS) Flush(path string, fh uint64) int {
	log.Trace("Libfuse::Flush : %s, handle: %d", path, fh)

	handle, found := handlemap.Load(handlemap.HandleID(fh))
	if !found {
		return -fuse.EBADF
	}
	if !handle.Dirty() {
		return 0
	}

	handle.RLock()
	defer handle.RUnlock()
	if handle.FObj == nil {
		return 0
	}
	if err := handle.FObj.Sync(); err != nil {
		log.Err("Libfuse::Flush : error syncing %s [%s]", path, err.Error())
		return -fuse.EIO
	}
	return 0
}

func (cf *cgofuseFS) Fsync(path string, datasync bool, fh uint64) int {
	return cf.Flush(path, fh)
}

// commit : upload a written photo. Anything that is not an image stays in scratch, pinned.
func (cf *cgofuseFS) commit(collection string, item string, localPath string) error {
	info, err := os.Stat(localPath)
	if err != nil {
		return err
	}
	err = fuseFS.catalog.SetItemSize(fuseFS.ctx, collection, item, info.Size())
	if err != nil {
		return err
	}

	image, err := fuseFS.scratch.IsImage(localPath)
	if err != nil {
		return err
	}
	if !image {
		log.Warn("Libfuse::commit : %s/%s is not an image, keeping it local", collection, item)
		return errNotImage
	}

	return fuseFS.catalog.CommitUpload(fuseFS.ctx, collection, item, localPath)
}

var errNotImage = errors.New("not an image")

// Release : last close of a dirty photo uploads it
func (cf *cgofuseFS) Release(path string, fh uint64) int {
	log.Trace("Libfuse::Release : %s, handle: %d", path, fh)

	handle, found := handlemap.Load(handlemap.HandleID(fh))
	if !found {
		return -fuse.EBADF
	}
	defer handlemap.Delete(handle.ID)

	err := handle.Cleanup()
	if err != nil {
		log.Warn("Libfuse::Release : error closing %s [%s]", path, err.Error())
	}

	dirty := handle.Dirty()
	if !dirty {
		dirty, err = fuseFS.catalog.GetItemDirty(fuseFS.ctx, handle.Collection, handle.Item)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			log.Warn("Libfuse::Release : dirty state of %s unknown [%s]", path, err.Error())
		}
	}
	if !dirty {
		fuseFS.scratch.Release(handle.Collection, handle.Item, false)
		return 0
	}

	err = cf.commit(handle.Collection, handle.Item, handle.LocalPath)
	switch {
	case err == nil:
		fuseFS.scratch.Release(handle.Collection, handle.Item, false)
		return 0
	case errors.Is(err, errNotImage):
		fuseFS.scratch.Release(handle.Collection, handle.Item, true)
		return 0
	default:
		log.Err("Libfuse::Release : upload of %s failed, local copy kept [%s]", path, err.Error())
		fuseFS.scratch.Release(handle.Collection, handle.Item, true)
		return fuseErrno(err)
	}
}

// Unlink : delete the photo
func (cf *cgofuseFS) Unlink(path string) int {
	collection, item := common.SplitPhotoPath(path)
	log.Trace("Libfuse::Unlink : %s", path)

	err := fuseFS.catalog.DeleteItem(fuseFS.ctx, collection, item)
	if err != nil {
		log.Err("Libfuse::Unlink : error deleting %s [%s]", path, err.Error())
		return fuseErrno(err)
	}

	err = fuseFS.scratch.Remove(collection, item)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		log.Warn("Libfuse::Unlink : scratch copy of %s not removed [%s]", path, err.Error())
	}
	return 0
}

// Rename : an album rename, or a photo rename and/or move between albums
func (cf *cgofuseFS) Rename(oldpath string, newpath string) int {
	srcCollection, srcItem := common.SplitPhotoPath(oldpath)
	dstCollection, dstItem := common.SplitPhotoPath(newpath)
	log.Trace("Libfuse::Rename : %s -> %s", oldpath, newpath)

	if srcCollection == "" {
		if _, err := fuseFS.catalog.LookupCollection(fuseFS.ctx, srcItem); err == nil {
			if dstCollection != "" {
				return -fuse.EPERM
			}
			err = fuseFS.catalog.RenameCollection(fuseFS.ctx, srcItem, dstItem)
			if err != nil {
				log.Err("Libfuse::Rename : error renaming album %s [%s]", srcItem, err.Error())
				return fuseErrno(err)
			}
			return 0
		}
	}

	name := srcItem
	if srcItem != dstItem {
		err := fuseFS.catalog.RenameItem(fuseFS.ctx, srcCollection, srcItem, dstItem)
		if err != nil {
			log.Err("Libfuse::Rename : error renaming %s [%s]", oldpath, err.Error())
			return fuseErrno(err)
		}
		name = dstItem
	}

	if srcCollection != dstCollection {
		err := fuseFS.catalog.MoveItem(fuseFS.ctx, srcCollection, dstCollection, name)
		if err != nil {
			log.Err("Libfuse::Rename : error moving %s to %s [%s]", name, dstCollection, err.Error())
			if name != srcItem {
				// put the title back so the photo is where and what it was
				undoErr := fuseFS.catalog.RenameItem(fuseFS.ctx, srcCollection, name, srcItem)
				if undoErr != nil {
					log.Err("Libfuse::Rename : %s left as %s [%s]", oldpath, name, undoErr.Error())
				}
			}
			return fuseErrno(err)
		}
	}

	err := fuseFS.scratch.Rename(srcCollection, srcItem, dstCollection, dstItem)
	if err != nil {
		log.Warn("Libfuse::Rename : scratch copy of %s not moved [%s]", oldpath, err.Error())
	}
	return 0
}

// Truncate : through the open handle when there is one, otherwise fetch, cut and upload
func (cf *cgofuseFS) Truncate(path string, size int64, fh uint64) int {
	collection, item := common.SplitPhotoPath(path)
	log.Trace("Libfuse::Truncate : %s size %d", path, size)

	if fh != noHandle {
		if handle, found := handlemap.Load(handlemap.HandleID(fh)); found && handle.FObj != nil {
			err := handle.FObj.Truncate(size)
			if err != nil {
				log.Err("Libfuse::Truncate : error truncating %s [%s]", path, err.Error())
				return -fuse.EIO
			}
			handle.SetSize(size)
			handle.SetDirty()
			cf.markDirty(collection, item)
			return 0
		}
	}

	md, err := fuseFS.catalog.LookupItem(fuseFS.ctx, collection, item)
	if err != nil {
		return fuseErrno(err)
	}
	localPath, err := fuseFS.scratch.Materialize(fuseFS.ctx, md.SourceURI, collection, item)
	if err != nil {
		return fuseErrno(err)
	}

	err = os.Truncate(localPath, size)
	if err != nil {
		log.Err("Libfuse::Truncate : error truncating %s [%s]", localPath, err.Error())
		fuseFS.scratch.Release(collection, item, false)
		return -fuse.EIO
	}
	cf.markDirty(collection, item)

	err = cf.commit(collection, item, localPath)
	if err != nil && !errors.Is(err, errNotImage) {
		log.Err("Libfuse::Truncate : upload of %s failed [%s]", path, err.Error())
		fuseFS.scratch.Release(collection, item, true)
		return fuseErrno(err)
	}
	fuseFS.scratch.Release(collection, item, err != nil)
	return 0
}

// Chmod : photos carry no mode, only the scratch copy is touched
func (cf *cgofuseFS) Chmod(path string, mode uint32) int {
	collection, item := common.SplitPhotoPath(path)
	log.Trace("Libfuse::Chmod : %s mode %o", path, mode)

	localPath := fuseFS.scratch.LocalPath(collection, item)
	if common.FileExists(localPath) {
		if err := os.Chmod(localPath, os.FileMode(mode)&0777|0600); err != nil {
			log.Warn("Libfuse::Chmod : %s [%s]", localPath, err.Error())
		}
	}
	return 0
}

func (cf *cgofuseFS) Chown(path string, uid uint32, gid uint32) int {
	log.Trace("Libfuse::Chown : %s", path)
	return 0
}

func (cf *cgofuseFS) Utimens(path string, tmsp []fuse.Timespec) int {
	log.Trace("Libfuse::Utimens : %s", path)
	return 0
}
