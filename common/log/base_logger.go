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

package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/Seagate/photofuse/common"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileConfig : Configuration of the file based logger
type LogFileConfig struct {
	LogFile      string
	LogSize      uint64 // MB
	LogFileCount int
	LogLevel     common.LogLevel
	LogTag       string
}

type BaseLogger struct {
	logger     *log.Logger
	fileConfig LogFileConfig
	writer     *lumberjack.Logger
	procPID    int
	mtx        sync.Mutex
}

func newBaseLogger(config LogFileConfig) (*BaseLogger, error) {
	l := &BaseLogger{
		fileConfig: config,
		procPID:    os.Getpid(),
	}
	if err := l.init(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *BaseLogger) init() error {
	var out io.Writer = os.Stdout

	if l.fileConfig.LogFile != "" && l.fileConfig.LogFile != "stdout" {
		if err := os.MkdirAll(filepath.Dir(l.fileConfig.LogFile), 0755); err != nil {
			return fmt.Errorf("failed to create log directory [%s]", err.Error())
		}

		l.writer = &lumberjack.Logger{
			Filename:   l.fileConfig.LogFile,
			MaxSize:    int(l.fileConfig.LogSize),
			MaxBackups: l.fileConfig.LogFileCount,
			LocalTime:  true,
		}
		out = l.writer
	}

	l.logger = log.New(out, "", 0)
	return nil
}

func (l *BaseLogger) GetLoggerObj() *log.Logger {
	return l.logger
}

func (l *BaseLogger) SetLogFile(name string) error {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	if name == l.fileConfig.LogFile {
		return nil
	}
	if l.writer != nil {
		_ = l.writer.Close()
		l.writer = nil
	}
	l.fileConfig.LogFile = name
	return l.init()
}

func (l *BaseLogger) SetMaxLogSize(size int) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.fileConfig.LogSize = uint64(size)
	if l.writer != nil {
		l.writer.MaxSize = size
	}
}

func (l *BaseLogger) SetLogFileCount(count int) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.fileConfig.LogFileCount = count
	if l.writer != nil {
		l.writer.MaxBackups = count
	}
}

func (l *BaseLogger) SetLogLevel(level common.LogLevel) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.fileConfig.LogLevel = level
}

func (l *BaseLogger) GetType() string {
	return "base"
}

func (l *BaseLogger) GetLogLevel() common.LogLevel {
	return l.fileConfig.LogLevel
}

func (l *BaseLogger) Destroy() error {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if l.writer != nil {
		err := l.writer.Close()
		l.writer = nil
		return err
	}
	return nil
}

func (l *BaseLogger) LogRotate() error {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if l.writer != nil {
		return l.writer.Rotate()
	}
	return nil
}

func (l *BaseLogger) Debug(format string, args ...interface{}) {
	l.logEvent(common.ELogLevel.LOG_DEBUG().String(), format, args...)
}

func (l *BaseLogger) Trace(format string, args ...interface{}) {
	l.logEvent(common.ELogLevel.LOG_TRACE().String(), format, args...)
}

func (l *BaseLogger) Info(format string, args ...interface{}) {
	l.logEvent(common.ELogLevel.LOG_INFO().String(), format, args...)
}

func (l *BaseLogger) Warn(format string, args ...interface{}) {
	l.logEvent(common.ELogLevel.LOG_WARNING().String(), format, args...)
}

func (l *BaseLogger) Err(format string, args ...interface{}) {
	l.logEvent(common.ELogLevel.LOG_ERR().String(), format, args...)
}

func (l *BaseLogger) Crit(format string, args ...interface{}) {
	l.logEvent(common.ELogLevel.LOG_CRIT().String(), format, args...)
}

func (l *BaseLogger) logEvent(lvl string, format string, args ...interface{}) {
	// Only log if the log level matches the log request
	_, fn, ln, _ := runtime.Caller(3)
	msg := fmt.Sprintf(format, args...)
	msg = fmt.Sprintf("%s : %s[%d] : [%s] %s [%s (%d)]: %s",
		time.Now().Format(time.UnixDate),
		l.fileConfig.LogTag,
		l.procPID,
		common.MountPath,
		lvl,
		filepath.Base(fn), ln,
		msg)

	l.mtx.Lock()
	l.logger.Println(msg)
	l.mtx.Unlock()
}
