/*
 * Copyright 2025 SREDiag Authors
 * Copyright 2023 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type LoggerTestSuite struct {
	suite.Suite
	saved int
}

func (s *LoggerTestSuite) SetupTest() {
	s.saved = Level()
}

func (s *LoggerTestSuite) TearDownTest() {
	SetLevel(s.saved)
}

func (s *LoggerTestSuite) TestLevelFilter() {
	var out bytes.Buffer
	l := New("filter", &out)

	SetLevel(LevelWarn)
	l.Infof("hidden %d", 1)
	l.Debugf("hidden %d", 2)
	s.Require().Equal(0, out.Len())

	l.Warnf("shown %d", 3)
	l.Errorf("shown %d", 4)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	s.Require().Len(lines, 2)
	s.Require().Contains(lines[0], "Warn")
	s.Require().Contains(lines[0], "shown 3")
	s.Require().Contains(lines[1], "Error")
}

func (s *LoggerTestSuite) TestPrefixCarriesNameAndLocation() {
	var out bytes.Buffer
	l := New("ringchan test", &out)
	SetLevel(LevelTrace)

	l.Tracef("trace message")
	line := out.String()
	s.Require().Contains(line, "ringchan test")
	s.Require().Contains(line, "logger_test.go:")
	s.Require().Contains(line, "trace message")
}

func (s *LoggerTestSuite) TestSetLevelIgnoresOutOfRange() {
	SetLevel(LevelInfo)
	SetLevel(LevelNoPrint + 1)
	s.Require().Equal(LevelInfo, Level())
	SetLevel(-1)
	s.Require().Equal(LevelInfo, Level())
}

func (s *LoggerTestSuite) TestNoPrint() {
	var out bytes.Buffer
	l := New("quiet", &out)
	SetLevel(LevelNoPrint)
	l.Errorf("never")
	s.Require().Equal(0, out.Len())
}

func TestLoggerTestSuite(t *testing.T) {
	suite.Run(t, new(LoggerTestSuite))
}
