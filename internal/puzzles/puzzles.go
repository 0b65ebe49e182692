// internal/puzzles/puzzles.go
//
// Puzzle pack management.
//
// Responsibilities:
//   - Load the puzzle pack from an environment-provided file or fall back
//     to the embedded default pack.
//   - Index puzzles by id for board construction.
//   - Supply the ordered id list (the daily rotation draws from it).
//
// Pack format (one file, many puzzles):
//   • `# ...` comment lines and extra blank lines between puzzles.
//   • `id: <name>` opens a puzzle; the lines until the next blank line
//     are its rows, verbatim (so `-`, `_`, `X`, `*` and letters).
//
// Environment variables:
//   PUZZLES_FILE=/path/to/pack.txt
//
// Initialization runs once (sync.Once); puzzles are immutable afterwards.

package puzzles

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

//go:embed default_puzzles.txt
var embeddedPack string

// Puzzle is one entry of the pack: an id plus the raw board text.
type Puzzle struct {
	ID   string
	Text string
}

var (
	initOnce   sync.Once
	byID       map[string]Puzzle
	orderedIDs []string
	initialErr error
)

// Init loads the puzzle pack exactly once. Returns an error if the pack
// ends up empty or malformed.
func Init() error {
	initOnce.Do(func() {
		src := embeddedPack
		if path := os.Getenv("PUZZLES_FILE"); path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				initialErr = fmt.Errorf("puzzles: read %s: %w", path, err)
				return
			}
			src = string(data)
		}
		byID, orderedIDs, initialErr = parsePack(src)
	})
	return initialErr
}

// parsePack splits a pack file into puzzles, preserving file order.
func parsePack(src string) (map[string]Puzzle, []string, error) {
	puzzles := make(map[string]Puzzle)
	var ids []string

	var id string
	var rows []string
	flush := func() error {
		if id == "" {
			return nil
		}
		if len(rows) == 0 {
			return fmt.Errorf("puzzles: %q has no rows", id)
		}
		if _, dup := puzzles[id]; dup {
			return fmt.Errorf("puzzles: duplicate id %q", id)
		}
		puzzles[id] = Puzzle{ID: id, Text: strings.Join(rows, "\n")}
		ids = append(ids, id)
		id, rows = "", nil
		return nil
	}

	for _, line := range strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			if err := flush(); err != nil {
				return nil, nil, err
			}
		case strings.HasPrefix(trimmed, "id:"):
			if err := flush(); err != nil {
				return nil, nil, err
			}
			id = strings.TrimSpace(strings.TrimPrefix(trimmed, "id:"))
			if id == "" {
				return nil, nil, errors.New("puzzles: empty id line")
			}
		case strings.HasPrefix(trimmed, "#") && id == "":
			// comment between puzzles
		default:
			if id == "" {
				return nil, nil, fmt.Errorf("puzzles: row %q outside any puzzle", line)
			}
			rows = append(rows, line)
		}
	}
	if err := flush(); err != nil {
		return nil, nil, err
	}
	if len(ids) == 0 {
		return nil, nil, errors.New("puzzles: pack is empty")
	}
	return puzzles, ids, nil
}

// Get looks a puzzle up by id.
func Get(id string) (Puzzle, bool) {
	_ = Init()
	p, ok := byID[id]
	return p, ok
}

// IDs returns the puzzle ids in pack order.
func IDs() []string {
	_ = Init()
	return orderedIDs
}

// Stats reports the number of loaded puzzles.
func Stats() int {
	_ = Init()
	return len(orderedIDs)
}
