package host

import (
	"bufio"
	"fmt"
	"io"
)

// Stdio runs the line-oriented protocol spec.md §6 describes as the
// kernel's thin external channel: one command per line in, the dispatched
// output lines out, until r is exhausted or yields an error.
func Stdio(d *Dispatcher, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		for _, out := range d.Line(scanner.Text()) {
			if _, err := fmt.Fprintln(w, out); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}
