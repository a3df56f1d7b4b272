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

package common

import (
	"reflect"
	"runtime"
	"sync"
	"time"

	"github.com/JeffreyRichter/enum/enum"
)

// Standard config default values
const (
	photofuseVersion_ = "0.3.0"

	FileSystemName = "photofuse"

	DefaultMaxLogFileSize = 512
	DefaultLogFileCount   = 10

	DefaultWorkDir        = "$HOME/.photofuse"
	DefaultLogFile        = "photofuse.log"
	DefaultScratchDirName = "scratch"
	DefaultCredentialFile = "$HOME/.photofuse/credentials"

	// name of the synthetic album holding photos that belong to no album
	UncategorizedName = ""

	// size sentinel: not known yet, fetch lazily
	SizeUnknown int64 = -1

	// layout of capture timestamps as the photo service renders them
	TakenLayout = "2006-01-02 15:04:05"
)

var PhotofuseVersion = photofuseVersion_

var DefaultLogFilePath = JoinUnixFilepath(DefaultWorkDir, DefaultLogFile)
var DefaultConfigFilePath = "config.yaml"

var MountPath string

// set when the mount runs attached to the terminal, no parent waits for a signal
var ForegroundMount bool

// filled in by the linker at release time
var (
	GitCommit  = "unknown"
	CommitDate = "unknown"
	GoVersion  = runtime.Version()
	OsArch     = runtime.GOOS + "/" + runtime.GOARCH
)

// LogLevel enum
type LogLevel int

var ELogLevel = LogLevel(0).INVALID()

func (LogLevel) INVALID() LogLevel {
	return LogLevel(0)
}

func (LogLevel) LOG_OFF() LogLevel {
	return LogLevel(1)
}

func (LogLevel) LOG_CRIT() LogLevel {
	return LogLevel(2)
}

func (LogLevel) LOG_ERR() LogLevel {
	return LogLevel(3)
}

func (LogLevel) LOG_WARNING() LogLevel {
	return LogLevel(4)
}

func (LogLevel) LOG_INFO() LogLevel {
	return LogLevel(5)
}

func (LogLevel) LOG_TRACE() LogLevel {
	return LogLevel(6)
}

func (LogLevel) LOG_DEBUG() LogLevel {
	return LogLevel(7)
}

func (l LogLevel) String() string {
	return enum.StringInt(l, reflect.TypeOf(l))
}

func (l *LogLevel) Parse(s string) error {
	enumVal, err := enum.ParseInt(reflect.TypeOf(l), s, true, false)
	if enumVal != nil {
		*l = enumVal.(LogLevel)
	}
	return err
}

type LogConfig struct {
	Level       LogLevel
	MaxFileSize uint64
	FileCount   uint64
	FilePath    string
	TimeTracker bool
	Tag         string // Syslog tag
}

// BitMap16 : flags kept on a cache entry; callers synchronize access
type BitMap16 uint16

// IsSet : Check whether the given bit is set or not
func (bm BitMap16) IsSet(bit uint16) bool { return (bm & (1 << bit)) != 0 }

// Set : Set the given bit in bitmap
func (bm *BitMap16) Set(bit uint16) { *bm |= (1 << bit) }

// Clear : Clear the given bit from bitmap
func (bm *BitMap16) Clear(bit uint16) { *bm &= ^(1 << bit) }

// Reset : Reset the whole bitmap by setting it to 0
func (bm *BitMap16) Reset() { *bm = 0 }

type KeyedMutex struct {
	mutexes sync.Map // Zero value is empty and ready for use
}

func (m *KeyedMutex) GetLock(key string) *sync.Mutex {
	value, _ := m.mutexes.LoadOrStore(key, &sync.Mutex{})
	mtx := value.(*sync.Mutex)
	return mtx
}

// ParseTaken converts the service's "YYYY-MM-DD hh:mm:ss" capture time into a time value.
// The text carries no zone so it is read as UTC. A malformed value yields the zero time.
func ParseTaken(text string) (time.Time, bool) {
	if text == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(TakenLayout, text, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatTaken is the inverse of ParseTaken
func FormatTaken(t time.Time) string {
	return t.UTC().Format(TakenLayout)
}
