// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This file defines the Log struct and associated methods.  Every
// compilation returns a Log, which contains informational messages,
// warnings, and errors generated while the pipeline ran.  The compiler is
// batch-oriented: the first fatal entry aborts the pipeline, so a failed
// compilation surfaces a single diagnostic.

package engine

import (
	"bytes"

	"github.com/ownlang/ownc/text"
)

// Every Entry has a severity.  Info and Warning entries are advisory; an
// Error entry means the input program was rejected (a parse, type, or
// borrow error) and no results beyond the Log are valid.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

// An Entry constitutes a single entry in a Log.  Every Entry has a severity
// and a message.  If the filename is a nonempty string, the Entry is
// associated with a particular position in the given file.
type Entry struct {
	Severity Severity    `json:"severity"`
	Message  string      `json:"message"`
	Filename string      `json:"filename"`
	Position text.Extent `json:"position"`
}

// A Log stores the diagnostics produced by one compilation.
type Log struct {
	Entries []Entry `json:"entries"`
}

func (entry *Entry) String() string {
	var buffer bytes.Buffer
	switch entry.Severity {
	case Info:
		// No prefix
	case Warning:
		buffer.WriteString("Warning: ")
	case Error:
		buffer.WriteString("Error: ")
	}
	if entry.Filename != "" {
		buffer.WriteString(entry.Filename)
		buffer.WriteString(", ")
		buffer.WriteString(entry.Position.String())
		buffer.WriteString(": ")
	}
	buffer.WriteString(entry.Message)
	return buffer.String()
}

// NewLog returns a new, empty Log.
func NewLog() *Log {
	log := new(Log)
	log.Entries = []Entry{}
	return log
}

// Log adds a message with the given severity, not associated with any
// particular position.
func (log *Log) Log(severity Severity, message string) {
	log.Entries = append(log.Entries, Entry{
		Severity: severity,
		Message:  message,
	})
}

// LogAt adds a message with the given severity at a position in a file.
func (log *Log) LogAt(severity Severity, message, filename string, pos text.Extent) {
	log.Entries = append(log.Entries, Entry{
		Severity: severity,
		Message:  message,
		Filename: filename,
		Position: pos,
	})
}

func (log *Log) String() string {
	var buffer bytes.Buffer
	for _, entry := range log.Entries {
		buffer.WriteString(entry.String())
		buffer.WriteString("\n")
	}
	return buffer.String()
}

// ContainsErrors returns true if the log contains at least one error entry.
func (log *Log) ContainsErrors() bool {
	for _, entry := range log.Entries {
		if entry.Severity >= Error {
			return true
		}
	}
	return false
}
