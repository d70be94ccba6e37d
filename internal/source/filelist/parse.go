// Package filelist reads the list from two newline-delimited UTF-8 files:
// one item name per line and one authorized user id per line.
package filelist

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/m3rciful/buylist/internal/shoplist"
)

// ParseItems returns one inactive-by-default entry per non-blank line.
func ParseItems(r io.Reader) ([]shoplist.Entry, error) {
	var items []shoplist.Entry
	err := scanLines(r, func(_ int, line string) error {
		items = append(items, shoplist.Entry{Name: line})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	return items, nil
}

// ParseUsers returns the user ids in file order. A line that is not an
// integer fails the whole read.
func ParseUsers(r io.Reader) ([]int64, error) {
	var users []int64
	err := scanLines(r, func(n int, line string) error {
		id, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			return fmt.Errorf("line %d: invalid user id %q", n, line)
		}
		users = append(users, id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}
	return users, nil
}

// scanLines calls fn with the 1-based line number and the trimmed text of
// every non-blank line.
func scanLines(r io.Reader, fn func(n int, line string) error) error {
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if n == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" {
			continue
		}
		if err := fn(n, line); err != nil {
			return err
		}
	}
	return sc.Err()
}
