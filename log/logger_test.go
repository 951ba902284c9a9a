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
	"testing"

	"github.com/stretchr/testify/require"
)

// stripTime drops the leading timestamp of a log line.
func stripTime(s string) string {
	return s[strings.IndexByte(s, ' ')+1:]
}

func TestLogger(t *testing.T) {

	t.Run("uses the default logger", func(t *testing.T) {
		var buf bytes.Buffer
		prev := SetDefault(New(&LoggerOptions{
			Output: &buf,
			Level:  Info,
		}))
		defer SetDefault(prev)

		L().Info("this is a test")

		require.Equal(t, "[INFO]  this is a test\n", stripTime(buf.String()))
	})

	t.Run("filters by level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&LoggerOptions{
			Output: &buf,
			Level:  Error,
		})

		logger.Info("this is a test")
		logger.Debugf("this is a %s", "test")
		require.Equal(t, "", buf.String())

		logger.Errorf("this is a %s", "test")
		require.Equal(t, "[ERROR] this is a test\n", stripTime(buf.String()))
	})

	t.Run("off level is silent", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&LoggerOptions{
			Output: &buf,
			Level:  Off,
		})
		logger.Error("this is a test")
		require.Equal(t, "", buf.String())
		require.False(t, logger.IsEnabled(Fatal))
	})

	t.Run("named loggers chain names", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&LoggerOptions{
			Name:   "root",
			Output: &buf,
			Level:  Info,
		})

		logger.Named("merkle").Named("tree").Info("this is a test")
		require.Equal(t, "[INFO]  root.merkle.tree: this is a test\n", stripTime(buf.String()))

		buf.Reset()
		logger.Named("merkle").ResetNamed("store").Warn("this is a test")
		require.Equal(t, "[WARN]  store: this is a test\n", stripTime(buf.String()))
	})

	t.Run("with level does not change the parent", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&LoggerOptions{
			Output: &buf,
			Level:  Info,
		})

		logger.WithLevel(Debug).Debug("visible")
		logger.Debug("hidden")
		require.Equal(t, "[DEBUG] visible\n", stripTime(buf.String()))
	})

	t.Run("uses the given time format", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&LoggerOptions{
			Output:     &buf,
			Level:      Info,
			TimeFormat: "TIME",
		})
		logger.Info("this is a test")
		require.Equal(t, "TIME [INFO]  this is a test\n", buf.String())
	})

	t.Run("includes the caller location", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&LoggerOptions{
			Name:            "test",
			Output:          &buf,
			Level:           Info,
			IncludeLocation: true,
		})

		logger.Infof("this is a %s", "test")
		require.Regexp(t, `^\[INFO\]  log/logger_test.go:\d+: test: this is a test\n$`, stripTime(buf.String()))
	})

	t.Run("fatal exits the process", func(t *testing.T) {
		var buf bytes.Buffer
		var code int
		prev := osExit
		osExit = func(c int) { code = c }
		defer func() { osExit = prev }()

		logger := New(&LoggerOptions{Output: &buf, Level: Error})
		logger.Fatal("bye")
		require.Equal(t, 1, code)
		require.Equal(t, "[FATAL] bye\n", stripTime(buf.String()))
	})
}

func TestLevelFromString(t *testing.T) {

	testCases := []struct {
		input    string
		expected Level
	}{
		{"info", Info},
		{" DEBUG ", Debug},
		{"silent", Off},
		{"trace", Trace},
		{"whatever", NotSet},
	}

	for _, c := range testCases {
		require.Equalf(t, c.expected, LevelFromString(c.input), "Wrong level for %q", c.input)
	}
	require.Equal(t, "warn", Warn.String())
}

func TestStdLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&LoggerOptions{
		Name:   "std",
		Output: &buf,
		Level:  Debug,
	})

	std := logger.StdLogger(&StdLoggerOptions{InferLevels: true})
	std.Println("[DEBUG] this is a test")
	require.Equal(t, "[DEBUG] std: this is a test\n", stripTime(buf.String()))

	buf.Reset()
	std = logger.StdLogger(&StdLoggerOptions{ForceLevel: Warn})
	std.Println("[DEBUG] this is a test")
	require.Equal(t, "[WARN]  std: this is a test\n", stripTime(buf.String()))

	buf.Reset()
	std = logger.StdLogger(nil)
	std.Println("[ERROR] this is a test")
	require.Equal(t, "[INFO]  std: [ERROR] this is a test\n", stripTime(buf.String()))
}
