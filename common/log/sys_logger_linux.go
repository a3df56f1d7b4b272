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
	"errors"
	"fmt"
	"log"
	"log/syslog"
	"path/filepath"
	"runtime"

	"github.com/Seagate/photofuse/common"
)

type SysLogger struct {
	level  common.LogLevel
	tag    string
	logger *log.Logger
}

var NoSyslogService = errors.New("failed to create syslog object")

func newSysLogger(lvl common.LogLevel, tag string) (*SysLogger, error) {
	l := &SysLogger{
		level: lvl,
		tag:   tag,
	}
	err := l.init()
	if err != nil {
		return nil, err
	}
	return l, nil
}

func getSyslogLevel(lvl common.LogLevel) syslog.Priority {
	switch lvl {
	case common.ELogLevel.LOG_CRIT():
		return syslog.LOG_CRIT
	case common.ELogLevel.LOG_DEBUG():
		return syslog.LOG_DEBUG
	case common.ELogLevel.LOG_ERR():
		return syslog.LOG_ERR
	case common.ELogLevel.LOG_INFO():
		return syslog.LOG_INFO
	case common.ELogLevel.LOG_TRACE():
		return syslog.LOG_DEBUG
	case common.ELogLevel.LOG_WARNING():
		return syslog.LOG_WARNING
	default:
		return syslog.LOG_WARNING
	}
}

func (l *SysLogger) init() error {
	logwriter, err := syslog.New(getSyslogLevel(l.level), l.tag)
	if err != nil {
		return NoSyslogService
	}

	l.logger = log.New(logwriter, "", 0)
	return nil
}

func (l *SysLogger) GetLoggerObj() *log.Logger {
	return l.logger
}

func (l *SysLogger) SetLogFile(name string) error {
	return nil
}

func (l *SysLogger) SetMaxLogSize(size int) {
}

func (l *SysLogger) SetLogFileCount(count int) {
}

func (l *SysLogger) SetLogLevel(level common.LogLevel) {
	l.level = level
	l.write(common.ELogLevel.LOG_CRIT().String(), "Log level reset to : %s", level.String())
}

func (l *SysLogger) GetType() string {
	return "syslog"
}

func (l *SysLogger) GetLogLevel() common.LogLevel {
	return l.level
}

func (l *SysLogger) Destroy() error {
	return nil
}

func (l *SysLogger) write(lvl string, format string, args ...interface{}) {
	_, fn, ln, _ := runtime.Caller(3)
	msg := fmt.Sprintf(format, args...)
	l.logger.Println("[", common.MountPath, "] ", lvl, " [", filepath.Base(fn), " (", ln, ")]: ", msg)
}

func (l *SysLogger) Debug(format string, args ...interface{}) {
	l.write(common.ELogLevel.LOG_DEBUG().String(), format, args...)
}

func (l *SysLogger) Trace(format string, args ...interface{}) {
	l.write(common.ELogLevel.LOG_TRACE().String(), format, args...)
}

func (l *SysLogger) Info(format string, args ...interface{}) {
	l.write(common.ELogLevel.LOG_INFO().String(), format, args...)
}

func (l *SysLogger) Warn(format string, args ...interface{}) {
	l.write(common.ELogLevel.LOG_WARNING().String(), format, args...)
}

func (l *SysLogger) Err(format string, args ...interface{}) {
	l.write(common.ELogLevel.LOG_ERR().String(), format, args...)
}

func (l *SysLogger) Crit(format string, args ...interface{}) {
	l.write(common.ELogLevel.LOG_CRIT().String(), format, args...)
}

// LogRotate : rotation is handled by the syslog daemon
func (l *SysLogger) LogRotate() error {
	return nil
}
