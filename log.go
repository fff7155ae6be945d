// The MIT License
//
// Copyright (c) 2017-2018 by the author(s)
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
//
// Author(s):
//   - Andreas Oeldemann <andreas.oeldemann@tum.de>
//
// Description:
//
// Logging facility. Unlike the hardware driver this code started out as,
// the core never terminates the process on its own: fatal-to-flow and
// fatal-to-run conditions are returned as errors (see errors.go) and it is
// the caller's decision whether LOG_ERR-level diagnostics should end the
// run. Log is purely informational here.

package flowsynth

import (
	"log"
	"os"
)

// log levels
const (
	LogDebug int = iota
	LogInfo
	LogWarn
	LogErr
)

// one logger for each log level
var (
	logDebug       *log.Logger
	logInfo        *log.Logger
	logWarn        *log.Logger
	logError       *log.Logger
	logIndentLevel uint
	logLevel       = LogInfo
)

// Log prints out a log message with a specifiable log level.
func Log(level int, msg string, a ...interface{}) {
	if level < logLevel {
		// do not print out log message if criticality is below the one
		// specified by the user
		return
	}

	for i := uint(0); i < logIndentLevel; i++ {
		msg = "... " + msg
	}

	switch level {
	case LogDebug:
		if logDebug == nil {
			logDebug = log.New(os.Stdout, "DEBUG: ", log.Ldate|log.Lmicroseconds)
		}
		logDebug.Printf(msg, a...)
	case LogInfo:
		if logInfo == nil {
			logInfo = log.New(os.Stdout, "INFO: ", log.Ldate|log.Lmicroseconds)
		}
		logInfo.Printf(msg, a...)
	case LogWarn:
		if logWarn == nil {
			logWarn = log.New(os.Stdout, "WARN: ", log.Ldate|log.Lmicroseconds)
		}
		logWarn.Printf(msg, a...)
	case LogErr:
		if logError == nil {
			logError = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Lmicroseconds)
		}
		logError.Printf(msg, a...)
	default:
		panic("flowsynth: invalid log level")
	}
}

// LogIncrementIndentLevel increments the indentation level of all further log
// messages, so that diagnostic lines can be visually nested under the
// operation that produced them.
func LogIncrementIndentLevel() {
	logIndentLevel++
}

// LogDecrementIndentLevel decrements the indentation level of all further log
// messages.
func LogDecrementIndentLevel() {
	if logIndentLevel == 0 {
		panic("flowsynth: logIndentLevel reached negative value")
	}
	logIndentLevel--
}

// LogSetLevel sets the minimum criticality of the messages that are actually
// printed. Log messages below the criticality level are ignored.
func LogSetLevel(level int) {
	if level < LogDebug || level > LogErr {
		panic("flowsynth: invalid log level")
	}
	logLevel = level
}
