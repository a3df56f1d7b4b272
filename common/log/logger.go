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
	"strings"
	"time"

	"github.com/Seagate/photofuse/common"
)

// Logger : Interface to define a generic Logger. Implement this to create your new logging lib
type Logger interface {
	GetLoggerObj() *log.Logger

	SetLogFile(name string) error
	SetMaxLogSize(size int)
	SetLogFileCount(count int)
	SetLogLevel(level common.LogLevel)

	Destroy() error

	GetType() string
	GetLogLevel() common.LogLevel

	Debug(format string, args ...interface{})
	Trace(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Err(format string, args ...interface{})
	Crit(format string, args ...interface{})

	LogRotate() error
}

var logObj Logger
var timeTracker bool

// NewLogger : Method to create Logger object
func NewLogger(name string, config common.LogConfig) (Logger, error) {
	timeTracker = config.TimeTracker

	if len(strings.TrimSpace(config.Tag)) == 0 {
		config.Tag = common.FileSystemName
	}

	switch name {
	case "syslog":
		sysLogger, err := newSysLogger(config.Level, config.Tag)
		if err != nil {
			if err == NoSyslogService {
				// Syslog service does not exists on this system
				// fallback to file based logging.
				return NewLogger("base", config)
			}
			return nil, err
		}
		return sysLogger, nil
	case "silent":
		silentLogger := &SilentLogger{}
		return silentLogger, nil
	case "", "default", "base":
		baseLogger, err := newBaseLogger(LogFileConfig{
			LogFile:      config.FilePath,
			LogLevel:     config.Level,
			LogSize:      config.MaxFileSize,
			LogFileCount: int(config.FileCount),
			LogTag:       config.Tag,
		})
		if err != nil {
			return nil, err
		}
		return baseLogger, nil
	}
	return nil, errors.New("invalid logger type")
}

// SetDefaultLogger : Override the default logger with the given type
func SetDefaultLogger(name string, config common.LogConfig) error {
	var err error
	if logObj != nil {
		_ = logObj.Destroy()
	}
	logObj, err = NewLogger(name, config)
	if err != nil {
		return err
	}
	return nil
}

// SetConfig : applies a changed logging config to the current logger
func SetConfig(config common.LogConfig) error {
	timeTracker = config.TimeTracker
	if logObj == nil {
		return errors.New("logger not initialized")
	}
	if config.Level != common.ELogLevel.INVALID() {
		logObj.SetLogLevel(config.Level)
	}
	if config.FilePath != "" {
		if err := logObj.SetLogFile(config.FilePath); err != nil {
			return err
		}
	}
	if config.MaxFileSize > 0 {
		logObj.SetMaxLogSize(int(config.MaxFileSize))
	}
	if config.FileCount > 0 {
		logObj.SetLogFileCount(int(config.FileCount))
	}
	return nil
}

// GetLoggerObj : Get the underlying go logger object, if any
func GetLoggerObj() *log.Logger {
	return logObj.GetLoggerObj()
}

// GetType : Get the logger type
func GetType() string {
	return logObj.GetType()
}

// GetLogLevel : Get the current log level
func GetLogLevel() common.LogLevel {
	return logObj.GetLogLevel()
}

// Destroy : Destroy the logger and release any resources
func Destroy() error {
	if logObj == nil {
		return nil
	}
	return logObj.Destroy()
}

// LogRotate : Rotate the log files
func LogRotate() error {
	return logObj.LogRotate()
}

// ------------------ Public methods to log -------------------

// Debug : Debug message logging
func Debug(msg string, args ...interface{}) {
	if logObj.GetLogLevel() >= common.ELogLevel.LOG_DEBUG() {
		logObj.Debug(msg, args...)
	}
}

// Trace : Trace message logging
func Trace(msg string, args ...interface{}) {
	if logObj.GetLogLevel() >= common.ELogLevel.LOG_TRACE() {
		logObj.Trace(msg, args...)
	}
}

// Info : Info message logging
func Info(msg string, args ...interface{}) {
	if logObj.GetLogLevel() >= common.ELogLevel.LOG_INFO() {
		logObj.Info(msg, args...)
	}
}

// Warn : Warning message logging
func Warn(msg string, args ...interface{}) {
	if logObj.GetLogLevel() >= common.ELogLevel.LOG_WARNING() {
		logObj.Warn(msg, args...)
	}
}

// Err : Error message logging
func Err(msg string, args ...interface{}) {
	if logObj.GetLogLevel() >= common.ELogLevel.LOG_ERR() {
		logObj.Err(msg, args...)
	}
}

// Crit : Critical message logging
func Crit(msg string, args ...interface{}) {
	if logObj.GetLogLevel() >= common.ELogLevel.LOG_CRIT() {
		logObj.Crit(msg, args...)
	}
}

// TimeTrack : Dump time taken by a call
func TimeTrack(start time.Time, location string, name string) {
	if timeTracker {
		elapsed := time.Since(start)
		logObj.Crit("TimeTracker :: [%s] %s => %s", location, name, elapsed)
	}
}

// TimeTrackDiff : Dump time taken by a call
func TimeTrackDiff(diff time.Duration, location string, name string) {
	if timeTracker {
		logObj.Crit("TimeTracker :: [%s] %s => %s", location, name, diff)
	}
}

func init() {
	var err error
	logObj, err = NewLogger("base", common.LogConfig{
		Level:       common.ELogLevel.LOG_DEBUG(),
		FilePath:    common.ExpandPath(common.DefaultLogFilePath),
		MaxFileSize: common.DefaultMaxLogFileSize,
		FileCount:   common.DefaultLogFileCount,
		TimeTracker: false,
	})
	if err != nil {
		fmt.Printf("Failed to create default logger [%s]\n", err.Error())
		logObj = &SilentLogger{}
	}
}
