package util

import (
	"bufio"
	"errors"
	"io"
)

// ReadLine reads the next line from br without its "\n" or "\r\n" terminator.
// A line longer than max bytes is consumed in full but only its first max
// bytes are returned, with overlong set. io.EOF is returned only when no
// bytes remain.
func ReadLine(br *bufio.Reader, max int) (line string, overlong bool, err error) {
	var buf []byte
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) && (len(buf) > 0 || overlong) {
				return string(buf), overlong, nil
			}
			return "", false, err
		}
		if room := max - len(buf); len(chunk) > room {
			buf = append(buf, chunk[:room]...)
			overlong = true
		} else {
			buf = append(buf, chunk...)
		}
		if !isPrefix {
			return string(buf), overlong, nil
		}
	}
}
