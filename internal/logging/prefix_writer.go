package logging

import (
	"bytes"
	"io"
	"sync"
)

// PrefixWriter prepends a prefix to every complete line written through it.
// Partial lines are held back until their newline arrives.
type PrefixWriter struct {
	prefix string
	writer io.Writer

	mu     sync.Mutex
	buffer bytes.Buffer
}

func NewPrefixWriter(prefix string, w io.Writer) *PrefixWriter {
	return &PrefixWriter{
		prefix: prefix,
		writer: w,
	}
}

func (pw *PrefixWriter) Write(p []byte) (int, error) {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	n := len(p)
	pw.buffer.Write(p)

	for {
		line, err := pw.buffer.ReadBytes('\n')
		if err != nil {
			// incomplete line: keep it for the next Write
			pw.buffer.Write(line)
			break
		}
		if _, err := pw.writer.Write(append([]byte(pw.prefix), line...)); err != nil {
			return 0, err
		}
	}

	return n, nil
}
