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
	"bytes"
	"strings"
)

// stdLogAdapter routes lines written by a stdlib logger to a Logger.
type stdLogAdapter struct {
	log         Logger
	inferLevels bool
	forceLevel  Level
}

func (s *stdLogAdapter) Write(data []byte) (int, error) {
	str := string(bytes.TrimRight(data, " \t\n"))

	level := Info
	switch {
	case s.forceLevel != NotSet:
		level = s.forceLevel
		_, str = pickLevel(str)
	case s.inferLevels:
		level, str = pickLevel(str)
	}

	switch level {
	case Off:
	case Trace:
		s.log.Trace(str)
	case Debug:
		s.log.Debug(str)
	case Warn:
		s.log.Warn(str)
	case Error, Fatal:
		// a stdlib line never terminates the process
		s.log.Error(str)
	default:
		s.log.Info(str)
	}

	return len(data), nil
}

// pickLevel detects, based on conventions, what log level a line has and
// strips the prefix.
func pickLevel(str string) (Level, string) {
	prefixes := []struct {
		prefix string
		level  Level
	}{
		{"[TRACE]", Trace},
		{"[DEBUG]", Debug},
		{"[INFO]", Info},
		{"[WARN]", Warn},
		{"[ERROR]", Error},
		{"[ERR]", Error},
		{"[FATAL]", Fatal},
	}
	for _, p := range prefixes {
		if strings.HasPrefix(str, p.prefix) {
			return p.level, strings.TrimSpace(str[len(p.prefix):])
		}
	}
	return Info, str
}
