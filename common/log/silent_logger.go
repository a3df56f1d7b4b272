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
	"log"

	"github.com/Seagate/photofuse/common"
)

// SilentLogger : discards everything, used by tests
type SilentLogger struct {
}

func (*SilentLogger) GetLoggerObj() *log.Logger {
	return nil
}

func (*SilentLogger) SetLogFile(name string) error {
	return nil
}

func (*SilentLogger) SetMaxLogSize(size int) {
}

func (*SilentLogger) SetLogFileCount(count int) {
}

func (*SilentLogger) SetLogLevel(level common.LogLevel) {
}

func (*SilentLogger) Destroy() error {
	return nil
}

func (*SilentLogger) GetType() string {
	return "silent"
}

func (*SilentLogger) GetLogLevel() common.LogLevel {
	return common.ELogLevel.LOG_OFF()
}

func (*SilentLogger) Debug(format string, args ...interface{}) {}
func (*SilentLogger) Trace(format string, args ...interface{}) {}
func (*SilentLogger) Info(format string, args ...interface{})  {}
func (*SilentLogger) Warn(format string, args ...interface{})  {}
func (*SilentLogger) Err(format string, args ...interface{})   {}
func (*SilentLogger) Crit(format string, args ...interface{})  {}

func (*SilentLogger) LogRotate() error {
	return nil
}
