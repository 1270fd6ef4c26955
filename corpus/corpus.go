// Package corpus is the thin ingestion shell the adict-build command uses
// to turn a text file into a slice of entries. It lives outside dict, per
// SPEC_FULL.md §6's note that the core never reads corpus files itself: all
// normalization happens in dict.Encode, not here.
package corpus

import (
	"bufio"
	"os"

	"github.com/pkg/errors"
)

// ReadLines reads path and returns one entry per non-empty line, in file
// order. It performs no trimming beyond stripping the line terminator and
// no encoding -- dict.Build normalizes every entry itself.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open corpus file")
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scan corpus file")
	}
	return lines, nil
}
