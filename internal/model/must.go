package model

import (
	"bufio"
	"fmt"
	"io"
	"log"
)

// Must unwraps val if err is nil, and panics otherwise. Reserved for
// call sites where the error can only originate from an implementation
// bug (a violated invariant), never from input data.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// Must0 panics if err is non-nil.
func Must0(err error) {
	if err != nil {
		panic(err)
	}
}

// MustFprintf writes a formatted string to w, logging and exiting on error.
// Reserved for CLI-level output where a write failure is unrecoverable.
func MustFprintf(w io.Writer, format string, args ...interface{}) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		log.Fatalf("Fprintf failed: %v", err)
	}
}

// MustFprintln writes args followed by a newline to w, logging and exiting
// on error.
func MustFprintln(w io.Writer, args ...interface{}) {
	if _, err := fmt.Fprintln(w, args...); err != nil {
		log.Fatalf("Fprintln failed: %v", err)
	}
}

// FlushWriter flushes a buffered writer and logs any error encountered.
func FlushWriter(w *bufio.Writer) {
	if err := w.Flush(); err != nil {
		log.Printf("error flushing writer: %v", err)
	}
}
