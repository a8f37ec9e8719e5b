package toolrun

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry is one recorded tool invocation.
type Entry struct {
	Timestamp time.Time
	RunID     string
	Verb      string
	Target    string
	ExitCode  int
}

// RunLogPath returns the path to the blvhist run log file.
func RunLogPath() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "blvhist", "runs.log"), nil
}

// Append records an invocation at the end of the run log, creating the
// log and its directory on first use.
// Format per line: <epoch>\t<run-id>\t<verb>\t<target>\t<exit>
func Append(e Entry) error {
	path, err := RunLogPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	line := fmt.Sprintf("%d\t%s\t%s\t%s\t%d\n",
		e.Timestamp.Unix(), e.RunID, sanitize(e.Verb), sanitize(e.Target), e.ExitCode)
	_, err = f.WriteString(line)
	return err
}

// ReadRunLog reads all entries from the run log. Malformed lines are
// skipped so a partially corrupted log still yields its good entries.
func ReadRunLog() ([]Entry, error) {
	path, err := RunLogPath()
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // no log yet, not an error
		}
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) != 5 {
			continue
		}
		epoch, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			continue
		}
		code, err := strconv.Atoi(fields[4])
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Timestamp: time.Unix(epoch, 0),
			RunID:     fields[1],
			Verb:      fields[2],
			Target:    fields[3],
			ExitCode:  code,
		})
	}
	return entries, scanner.Err()
}

// sanitize keeps a field from corrupting the tab-separated record.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
