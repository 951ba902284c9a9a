/*
   Copyright 2018-2019 Banco Bilbao Vizcaya Argentaria, S.A.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package log

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

var brackets = map[Level]string{
	Trace: "[TRACE]",
	Debug: "[DEBUG]",
	Info:  "[INFO] ",
	Warn:  "[WARN] ",
	Error: "[ERROR]",
	Fatal: "[FATAL]",
}

// osExit is swapped on tests.
var osExit = os.Exit

type internalLogger struct {
	name       string
	caller     bool
	timeFormat string
	level      Level

	// Shared by every derived logger, as is the writer.
	mutex  *sync.Mutex
	writer *writer
}

func (l *internalLogger) derive() *internalLogger {
	d := *l
	return &d
}

func (l *internalLogger) Named(name string) Logger {
	d := l.derive()
	if d.name != "" {
		d.name = d.name + "." + name
	} else {
		d.name = name
	}
	return d
}

func (l *internalLogger) ResetNamed(name string) Logger {
	d := l.derive()
	d.name = name
	return d
}

func (l *internalLogger) WithLevel(level Level) Logger {
	d := l.derive()
	if level == NotSet {
		level = DefaultLevel
	}
	d.level = level
	return d
}

func (l *internalLogger) IsEnabled(level Level) bool {
	return l.level != Off && level <= l.level
}

func (l *internalLogger) StdLogger(opts *StdLoggerOptions) *log.Logger {
	if opts == nil {
		opts = &StdLoggerOptions{}
	}
	adapter := &stdLogAdapter{
		log:         l,
		inferLevels: opts.InferLevels,
		forceLevel:  opts.ForceLevel,
	}
	return log.New(adapter, "", 0)
}

func (l *internalLogger) log(level Level, msg string) {
	if !l.IsEnabled(level) {
		return
	}
	l.write(level, msg)
}

func (l *internalLogger) logf(level Level, format string, args ...interface{}) {
	if !l.IsEnabled(level) {
		return
	}
	l.write(level, fmt.Sprintf(format, args...))
}

func (l *internalLogger) write(level Level, msg string) {
	tm := time.Now()

	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.logPlain(tm, level, msg)
}

func (l *internalLogger) logPlain(tm time.Time, level Level, msg string) {

	l.writer.WriteString(tm.Format(l.timeFormat))

	l.writer.WriteByte(' ')
	l.writer.WriteString(levelToBracket(level))

	if l.caller {
		// logPlain <- write <- log(f) <- public method <- caller
		if _, file, line, ok := runtime.Caller(4); ok {
			l.writer.WriteByte(' ')
			l.writer.WriteString(trimCallerPath(file))
			l.writer.WriteByte(':')
			l.writer.WriteString(strconv.Itoa(line))
			l.writer.WriteByte(':')
		}
	}

	l.writer.WriteByte(' ')
	if l.name != "" {
		l.writer.WriteString(l.name)
		l.writer.WriteString(": ")
	}

	l.writer.WriteString(msg)
	l.writer.WriteByte('\n')
	l.writer.Flush()
}

// trimCallerPath keeps the last two segments of path.
func trimCallerPath(path string) string {
	idx := strings.LastIndexByte(path, '/')
	if idx == -1 {
		return path
	}
	if idx = strings.LastIndexByte(path[:idx], '/'); idx == -1 {
		return path
	}
	return path[idx+1:]
}

func levelToBracket(level Level) string {
	s, ok := brackets[level]
	if !ok {
		s = "[?????]"
	}
	return s
}

func (l *internalLogger) Trace(msg string) { l.log(Trace, msg) }

func (l *internalLogger) Tracef(format string, args ...interface{}) { l.logf(Trace, format, args...) }

func (l *internalLogger) Debug(msg string) { l.log(Debug, msg) }

func (l *internalLogger) Debugf(format string, args ...interface{}) { l.logf(Debug, format, args...) }

func (l *internalLogger) Info(msg string) { l.log(Info, msg) }

func (l *internalLogger) Infof(format string, args ...interface{}) { l.logf(Info, format, args...) }

func (l *internalLogger) Warn(msg string) { l.log(Warn, msg) }

func (l *internalLogger) Warnf(format string, args ...interface{}) { l.logf(Warn, format, args...) }

func (l *internalLogger) Error(msg string) { l.log(Error, msg) }

func (l *internalLogger) Errorf(format string, args ...interface{}) { l.logf(Error, format, args...) }

func (l *internalLogger) Fatal(msg string) {
	l.log(Fatal, msg)
	osExit(1)
}

func (l *internalLogger) Fatalf(format string, args ...interface{}) {
	l.logf(Fatal, format, args...)
	osExit(1)
}

func (l *internalLogger) Panic(msg string) {
	l.log(Error, msg)
	panic(msg)
}

func (l *internalLogger) Panicf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.log(Error, msg)
	panic(msg)
}
