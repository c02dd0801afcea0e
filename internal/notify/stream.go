package notify

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
)

// DecodeError reports a line that could not be decoded.
type DecodeError struct {
	Number int
	line   []byte
	err    error
}

func (e *DecodeError) Error() string {
	if e == nil || e.err == nil {
		return "notification decode error"
	}
	return fmt.Sprintf("line %d: %v", e.Number, e.err)
}

func (e *DecodeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// Line returns the offending input line.
func (e *DecodeError) Line() []byte {
	if e == nil {
		return nil
	}
	return e.line
}

// Stream reads JSON-lines notifications.
type Stream struct {
	reader *bufio.Reader
	line   int
}

// NewStream wraps r.
func NewStream(r io.Reader) *Stream {
	return &Stream{reader: bufio.NewReader(r)}
}

// Next returns the next notification. Blank lines are skipped; io.EOF marks
// the end of input.
func (s *Stream) Next(ctx context.Context) (Note, error) {
	for {
		if ctx.Err() != nil {
			return Note{}, ctx.Err()
		}
		line, err := s.reader.ReadBytes('\n')
		if len(line) == 0 && err != nil {
			return Note{}, err
		}
		s.line++
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			if err != nil {
				return Note{}, err
			}
			continue
		}
		note, decodeErr := Decode(line)
		if decodeErr != nil {
			return Note{}, &DecodeError{Number: s.line, line: append([]byte(nil), line...), err: decodeErr}
		}
		return note, nil
	}
}

// LineNumber returns the number of lines consumed so far.
func (s *Stream) LineNumber() int {
	return s.line
}
