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
	"fmt"
	"os"

	"github.com/Seagate/photofuse/common/log"

	"github.com/robfig/cron/v3"
)

// Start : schedule the reaper
func (sc *Scratch) Start() error {
	log.Trace("Scratch::Start : reaping every %d seconds", sc.reapInterval)

	sc.cronScheduler = cron.New()
	_, err := sc.cronScheduler.AddFunc(fmt.Sprintf("@every %ds", sc.reapInterval), func() {
		sc.reap()
	})
	if err != nil {
		log.Err("Scratch::Start : failed to schedule reaper [%s]", err.Error())
		return err
	}
	sc.cronScheduler.Start()
	return nil
}

// Stop : wait for a running reap, then remove everything not holding unsaved data
func (sc *Scratch) Stop() {
	log.Trace("Scratch::Stop")

	if sc.cronScheduler != nil {
		<-sc.cronScheduler.Stop().Done()
		sc.cronScheduler = nil
	}
	sc.reap()
}

// reap : delete released copies. Open copies and pinned ones stay.
func (sc *Scratch) reap() {
	sc.filesLock.Lock()
	victims := make([]string, 0)
	for localPath, f := range sc.files {
		if f.handles == 0 && !f.keep {
			victims = append(victims, localPath)
			delete(sc.files, localPath)
		}
	}
	sc.filesLock.Unlock()

	for _, localPath := range victims {
		flock := sc.fileLocks.GetLock(localPath)
		flock.Lock()
		// a Materialize may have raced us and re-tracked the path
		if !sc.isTracked(localPath) {
			_ = deleteFile(localPath)
		}
		flock.Unlock()
	}

	if len(victims) > 0 {
		log.Debug("Scratch::reap : removed %d released copies", len(victims))
	}
}

func (sc *Scratch) isTracked(localPath string) bool {
	sc.filesLock.Lock()
	defer sc.filesLock.Unlock()
	_, found := sc.files[localPath]
	return found
}

// Pending : copies holding data the photo service has not accepted yet
func (sc *Scratch) Pending() []string {
	sc.filesLock.Lock()
	defer sc.filesLock.Unlock()

	pending := make([]string, 0)
	for localPath, f := range sc.files {
		if f.keep {
			pending = append(pending, localPath)
		}
	}
	return pending
}

// Usage : bytes held in scratch
func (sc *Scratch) Usage() int64 {
	sc.filesLock.Lock()
	paths := make([]string, 0, len(sc.files))
	for localPath := range sc.files {
		paths = append(paths, localPath)
	}
	sc.filesLock.Unlock()

	var total int64
	for _, localPath := range paths {
		info, err := os.Stat(localPath)
		if err == nil {
			total += info.Size()
		}
	}
	return total
}
