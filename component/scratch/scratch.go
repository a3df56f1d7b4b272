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
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/Seagate/photofuse/common"
	"github.com/Seagate/photofuse/common/config"
	"github.com/Seagate/photofuse/common/log"

	"github.com/gabriel-vasile/mimetype"
	"github.com/robfig/cron/v3"
)

// Scratch : local copies of photos while they are open, one directory per album.
//
//	<path>/albums/<album>/<photo>
//	<path>/uncategorized/<photo>
type Scratch struct {
	path         string // uses os.Separator (filepath.Join)
	refresh      time.Duration
	reapInterval uint32
	client       *http.Client

	fileLocks common.KeyedMutex // per local path, serializes downloads

	filesLock sync.Mutex
	files     map[string]*scratchFile

	cronScheduler *cron.Cron
	clock         func() time.Time
}

type scratchFile struct {
	handles   int
	keep      bool      // holds data the photo service has not accepted yet
	fetchedAt time.Time // zero for files that never came from a uri
}

// Options : config key "scratch"
type Options struct {
	Path            string `config:"path" yaml:"path,omitempty"`
	RefreshSec      uint32 `config:"refresh-sec" yaml:"refresh-sec,omitempty"`
	ReapIntervalSec uint32 `config:"reap-interval-sec" yaml:"reap-interval-sec,omitempty"`
	DownloadTimeout uint32 `config:"download-timeout-sec" yaml:"download-timeout-sec,omitempty"`
	CleanupOnStart  bool   `config:"cleanup-on-start" yaml:"cleanup-on-start,omitempty"`
}

const (
	compName               = "scratch"
	defaultRefreshSec      = 1200
	defaultReapIntervalSec = 60

	albumsDir        = "albums"
	uncategorizedDir = "uncategorized"
)

// ReadOptions : scratch settings from the loaded config, with defaults for what is unset
func ReadOptions() (Options, error) {
	conf := Options{CleanupOnStart: true}
	err := config.UnmarshalKey(compName, &conf)
	if err != nil {
		log.Err("Scratch::ReadOptions : config error [invalid config attributes]")
		return conf, fmt.Errorf("config error in %s [%s]", compName, err.Error())
	}

	if conf.Path == "" {
		conf.Path = common.JoinUnixFilepath(common.DefaultWorkDir, common.DefaultScratchDirName)
	}
	if !config.IsSet(compName + ".refresh-sec") {
		conf.RefreshSec = defaultRefreshSec
	}
	if conf.ReapIntervalSec == 0 {
		conf.ReapIntervalSec = defaultReapIntervalSec
	}
	return conf, nil
}

// New : scratch space rooted at opts.Path
func New(opts Options) (*Scratch, error) {
	path := filepath.FromSlash(common.ExpandPath(opts.Path))
	if path == "" {
		return nil, fmt.Errorf("config error in %s [path not set]", compName)
	}

	sc := &Scratch{
		path:         path,
		refresh:      time.Duration(opts.RefreshSec) * time.Second,
		reapInterval: opts.ReapIntervalSec,
		client:       &http.Client{Timeout: time.Duration(opts.DownloadTimeout) * time.Second},
		files:        make(map[string]*scratchFile),
		clock:        time.Now,
	}

	if opts.CleanupOnStart && common.DirectoryExists(path) {
		err := common.TempCacheCleanup(path)
		if err != nil {
			return nil, fmt.Errorf("error in %s [fail to cleanup %s: %s]", compName, path, err.Error())
		}
	}

	err := os.MkdirAll(path, 0700)
	if err != nil {
		log.Err("Scratch::New : failed to create %s [%s]", path, err.Error())
		return nil, err
	}
	return sc, nil
}

// Path : root of the scratch space
func (sc *Scratch) Path() string {
	return sc.path
}

// LocalPath : where the copy of collection/item lives
func (sc *Scratch) LocalPath(collection string, item string) string {
	if collection == common.UncategorizedName {
		return filepath.Join(sc.path, uncategorizedDir, item)
	}
	return filepath.Join(sc.path, albumsDir, collection, item)
}

// Materialize : make a local copy of collection/item available and take a handle on it.
// An existing copy is reused while it is younger than refresh-sec or holds unsaved data.
// With an empty uri the item only exists locally, an empty file is created if needed.
func (sc *Scratch) Materialize(ctx context.Context, uri string, collection string, item string) (string, error) {
	localPath := sc.LocalPath(collection, item)
	log.Trace("Scratch::Materialize : %s", localPath)

	flock := sc.fileLocks.GetLock(localPath)
	flock.Lock()
	defer flock.Unlock()

	if sc.downloadRequired(localPath, uri) {
		err := sc.download(ctx, uri, localPath)
		if err != nil {
			return "", err
		}
		sc.filesLock.Lock()
		sc.trackLocked(localPath).fetchedAt = sc.clock()
		sc.filesLock.Unlock()
	} else if !common.FileExists(localPath) {
		err := sc.createEmpty(localPath)
		if err != nil {
			return "", err
		}
	}

	sc.filesLock.Lock()
	sc.trackLocked(localPath).handles++
	sc.filesLock.Unlock()
	return localPath, nil
}

func (sc *Scratch) downloadRequired(localPath string, uri string) bool {
	if uri == "" {
		return false
	}

	if !common.FileExists(localPath) {
		return true
	}

	sc.filesLock.Lock()
	defer sc.filesLock.Unlock()

	f, found := sc.files[localPath]
	if !found {
		log.Warn("Scratch::downloadRequired : %s exists but is not tracked", localPath)
		return true
	}
	if f.keep || f.handles > 0 {
		// never clobber data someone is working on
		return false
	}
	if f.fetchedAt.IsZero() {
		return false
	}
	if sc.clock().Sub(f.fetchedAt) > sc.refresh {
		log.Info("Scratch::downloadRequired : %s older than %v, fetching again", localPath, sc.refresh)
		return true
	}
	return false
}

func (sc *Scratch) createEmpty(localPath string) error {
	err := os.MkdirAll(filepath.Dir(localPath), 0700)
	if err != nil {
		return mapLocalErr(err)
	}
	f, err := os.OpenFile(localPath, os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return mapLocalErr(err)
	}
	sc.track(localPath)
	return f.Close()
}

// Release : drop a handle. keep pins the copy until a later release without keep,
// used when the local copy holds data the photo service has not accepted yet.
func (sc *Scratch) Release(collection string, item string, keep bool) {
	localPath := sc.LocalPath(collection, item)
	log.Trace("Scratch::Release : %s (keep %t)", localPath, keep)

	sc.filesLock.Lock()
	defer sc.filesLock.Unlock()

	f, found := sc.files[localPath]
	if !found {
		return
	}
	if f.handles > 0 {
		f.handles--
	}
	f.keep = keep
}

// Rename : follow a rename or move in the catalog
func (sc *Scratch) Rename(srcCollection string, srcItem string, dstCollection string, dstItem string) error {
	src := sc.LocalPath(srcCollection, srcItem)
	dst := sc.LocalPath(dstCollection, dstItem)
	log.Trace("Scratch::Rename : %s -> %s", src, dst)

	sc.filesLock.Lock()
	defer sc.filesLock.Unlock()

	f, found := sc.files[src]
	if !found || !common.FileExists(src) {
		delete(sc.files, src)
		return nil
	}

	err := os.MkdirAll(filepath.Dir(dst), 0700)
	if err != nil {
		return mapLocalErr(err)
	}
	err = os.Rename(src, dst)
	if err != nil {
		log.Err("Scratch::Rename : %s -> %s failed [%s]", src, dst, err.Error())
		return mapLocalErr(err)
	}
	delete(sc.files, src)
	sc.files[dst] = f
	return nil
}

// Remove : drop the local copy of a deleted item
func (sc *Scratch) Remove(collection string, item string) error {
	localPath := sc.LocalPath(collection, item)
	log.Trace("Scratch::Remove : %s", localPath)

	sc.filesLock.Lock()
	delete(sc.files, localPath)
	sc.filesLock.Unlock()

	return deleteFile(localPath)
}

// IsImage : content sniffing, not the file extension, decides
func (sc *Scratch) IsImage(localPath string) (bool, error) {
	mtype, err := mimetype.DetectFile(localPath)
	if err != nil {
		return false, mapLocalErr(err)
	}
	log.Debug("Scratch::IsImage : %s is %s", localPath, mtype.String())
	return strings.HasPrefix(mtype.String(), "image/"), nil
}

func (sc *Scratch) track(localPath string) *scratchFile {
	sc.filesLock.Lock()
	defer sc.filesLock.Unlock()
	return sc.trackLocked(localPath)
}

func (sc *Scratch) trackLocked(localPath string) *scratchFile {
	f, found := sc.files[localPath]
	if !found {
		f = &scratchFile{}
		sc.files[localPath] = f
	}
	return f
}

// mapLocalErr : a full scratch disk is reported as exhaustion, the rest as is
func mapLocalErr(err error) error {
	if errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EDQUOT) {
		return fmt.Errorf("scratch space [%s]: %w", err.Error(), common.ErrExhausted)
	}
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("scratch file [%s]: %w", err.Error(), common.ErrNotFound)
	}
	return err
}

// Delete a given file
func deleteFile(name string) error {
	log.Debug("Scratch::deleteFile : attempting to delete %s", name)

	err := os.Remove(name)
	if err != nil && os.IsPermission(err) {
		// File is not having delete permissions so change the mode and retry deletion
		log.Warn("Scratch::deleteFile : failed to delete %s due to permission", name)

		err = os.Chmod(name, os.FileMode(0600))
		if err != nil {
			log.Err("Scratch::deleteFile : %s failed to reset permissions", name)
			return err
		}

		err = os.Remove(name)
	} else if err != nil && os.IsNotExist(err) {
		log.Debug("Scratch::deleteFile : %s does not exist in scratch", name)
		return nil
	}

	if err != nil {
		log.Err("Scratch::deleteFile : Failed to delete local file %s [%v]", name, err.Error())
		return err
	}

	return nil
}
