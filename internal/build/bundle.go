package build

import (
	"fmt"
	"io"
	"os"
)

// WriteBundle concatenates the given files into w, in order. Each file's
// content is written verbatim, followed by a newline when the file does not
// end with one, so annotations of adjacent files never share a line.
func WriteBundle(w io.Writer, files []string) error {
	for _, file := range files {
		data, err := os.ReadFile(file) //nolint:gosec // G304: paths come from the resolved unit set
		if err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing bundle: %w", err)
		}
		if len(data) > 0 && data[len(data)-1] != '\n' {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return fmt.Errorf("writing bundle: %w", err)
			}
		}
	}
	return nil
}
