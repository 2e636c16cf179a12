package ts

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ConfEntry is one module line from a configuration file.
type ConfEntry struct {
	Name   string
	Params string
}

// ParseConf reads a module configuration: one "module <name> [params...]"
// directive per line, with blank lines and '#' comments skipped. The
// parameter fields are passed through to the module untouched.
func ParseConf(r io.Reader) ([]ConfEntry, error) {
	var entries []ConfEntry
	sc := bufio.NewScanner(r)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if fields[0] != "module" || len(fields) < 2 {
			return nil, fmt.Errorf("ts: conf line %d: expected \"module <name> [params]\", got %q", lineno, line)
		}
		entries = append(entries, ConfEntry{
			Name:   fields[1],
			Params: strings.Join(fields[2:], " "),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("ts: read conf: %w", err)
	}
	return entries, nil
}

// LoadConf parses the configuration file at path.
func LoadConf(path string) ([]ConfEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ts: open conf: %w", err)
	}
	defer f.Close()
	return ParseConf(f)
}
