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

// Package log provides a leveled and named logger.
package log

import (
	"io"
	"log"
	"strings"
	"sync"
)

// Level represents a log level.
type Level int32

const (
	// NotSet lets the logger pick the default level.
	NotSet Level = iota

	// Off silences every trace.
	Off

	Fatal
	Error
	Warn
	Info
	Debug
	Trace
)

func (l Level) String() string {
	switch l {
	case Off:
		return "off"
	case Fatal:
		return "fatal"
	case Error:
		return "error"
	case Warn:
		return "warn"
	case Info:
		return "info"
	case Debug:
		return "debug"
	case Trace:
		return "trace"
	default:
		return "unknown"
	}
}

// LevelFromString returns the Level named by level, or NotSet when the
// name is not recognized.
func LevelFromString(level string) Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "off", "silent":
		return Off
	case "fatal":
		return Fatal
	case "error":
		return Error
	case "warn":
		return Warn
	case "info":
		return Info
	case "debug":
		return Debug
	case "trace":
		return Trace
	default:
		return NotSet
	}
}

type Logger interface {
	Trace(msg string)
	Tracef(format string, args ...interface{})
	Debug(msg string)
	Debugf(format string, args ...interface{})
	Info(msg string)
	Infof(format string, args ...interface{})
	Warn(msg string)
	Warnf(format string, args ...interface{})
	Error(msg string)
	Errorf(format string, args ...interface{})
	Fatal(msg string)
	Fatalf(format string, args ...interface{})
	Panic(msg string)
	Panicf(format string, args ...interface{})

	// Named returns a logger that prefixes messages with name, appended
	// to any name the logger already had.
	Named(name string) Logger

	// ResetNamed is like Named but replaces the current name.
	ResetNamed(name string) Logger

	// WithLevel returns a copy of the logger with a new threshold.
	WithLevel(level Level) Logger

	// IsEnabled reports whether traces at level would be written.
	IsEnabled(level Level) bool

	// StdLogger returns a stdlib *log.Logger that writes through this
	// logger, for packages that only accept the standard one.
	StdLogger(opts *StdLoggerOptions) *log.Logger
}

// LoggerOptions can be used to configure a new logger.
type LoggerOptions struct {
	// Name of the subsystem to prefix logs with.
	Name string

	// Level is the threshold for the logger. Less severe traces are
	// suppressed.
	Level Level

	// Output is where logs are written. Defaults to DefaultOutput.
	Output io.Writer

	// TimeFormat overrides DefaultTimeFormat.
	TimeFormat string

	// IncludeLocation adds file and line information to each line.
	IncludeLocation bool

	// Mutex guards Output when it is shared with other loggers.
	Mutex *sync.Mutex
}

// StdLoggerOptions configures the adapter returned by StdLogger.
type StdLoggerOptions struct {
	// InferLevels parses [ERROR]-like prefixes and re-emits the line at
	// the matching level.
	InferLevels bool

	// ForceLevel emits every line at the given level. Overrides InferLevels.
	ForceLevel Level
}

func New(opts *LoggerOptions) Logger {
	if opts == nil {
		opts = &LoggerOptions{}
	}

	output := opts.Output
	if output == nil {
		output = DefaultOutput
	}

	level := opts.Level
	if level == NotSet {
		level = DefaultLevel
	}

	mutex := opts.Mutex
	if mutex == nil {
		mutex = new(sync.Mutex)
	}

	timeFormat := opts.TimeFormat
	if timeFormat == "" {
		timeFormat = DefaultTimeFormat
	}

	return &internalLogger{
		name:       opts.Name,
		caller:     opts.IncludeLocation,
		timeFormat: timeFormat,
		level:      level,
		mutex:      mutex,
		writer:     newWriter(output),
	}
}
