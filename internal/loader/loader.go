package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/buzzboard/buzzboard/internal/game"
)

// File names expected inside the data directory. media.txt is optional;
// everything else is required.
const (
	CategoriesFile = "categories.txt"
	AmountsFile    = "amounts.txt"
	CluesFile      = "clues.txt"
	PlayersFile    = "players.txt"
	MediaFile      = "media.txt"
)

// Load reads a data directory into the immutable clue catalog and the
// player name list. Any problem is fatal to startup and is reported with
// the offending file path.
func Load(dir string) (*game.Catalog, []string, error) {
	categories, err := Lines(filepath.Join(dir, CategoriesFile))
	if err != nil {
		return nil, nil, err
	}

	amounts, err := loadAmounts(filepath.Join(dir, AmountsFile))
	if err != nil {
		return nil, nil, err
	}

	clues, err := loadClues(filepath.Join(dir, CluesFile))
	if err != nil {
		return nil, nil, err
	}

	if err := applyMedia(filepath.Join(dir, MediaFile), clues, len(categories), len(amounts)); err != nil {
		return nil, nil, err
	}

	catalog, err := game.NewCatalog(categories, amounts, clues)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", filepath.Join(dir, CluesFile), err)
	}

	players, err := Lines(filepath.Join(dir, PlayersFile))
	if err != nil {
		return nil, nil, err
	}

	return catalog, players, nil
}

// Lines returns all nonempty lines of path, stripped of surrounding
// whitespace.
func Lines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			out = append(out, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

func loadAmounts(path string) ([]int, error) {
	lines, err := Lines(path)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(lines))
	for _, line := range lines {
		n, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("%s: every line must be an integer, got %q", path, line)
		}
		out = append(out, n)
	}
	return out, nil
}

// loadClues reads blank-line separated records. Each record is one clue;
// a record may span multiple lines, which are kept as separate text
// lines for layout.
func loadClues(path string) ([]game.Clue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer f.Close()

	var (
		clues   []game.Clue
		current []string
	)
	flush := func() {
		if len(current) > 0 {
			clues = append(clues, game.Clue{Lines: current})
			current = nil
		}
	}

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	flush()
	return clues, nil
}

// applyMedia attaches media references to clues. Each line of the
// manifest is "col,row kind path" where kind is reading, clue or image.
// A missing manifest is normal; a malformed one is fatal.
func applyMedia(path string, clues []game.Clue, numCategories, numRows int) error {
	lines, err := Lines(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return fmt.Errorf("%s: want \"col,row kind path\", got %q", path, line)
		}
		coord, err := parseCoord(fields[0])
		if err != nil {
			return fmt.Errorf("%s: %q: %w", path, line, err)
		}
		if coord.Col < 0 || coord.Col >= numCategories || coord.Row < 0 || coord.Row >= numRows {
			return fmt.Errorf("%s: coordinate %q outside the %dx%d board", path, fields[0], numCategories, numRows)
		}
		idx := coord.Col*numRows + coord.Row
		switch fields[1] {
		case "reading":
			clues[idx].AudioReading = fields[2]
		case "clue":
			clues[idx].AudioClue = fields[2]
		case "image":
			clues[idx].Image = fields[2]
		default:
			return fmt.Errorf("%s: unknown media kind %q (want reading, clue or image)", path, fields[1])
		}
	}
	return nil
}

func parseCoord(s string) (game.Coord, error) {
	col, row, ok := strings.Cut(s, ",")
	if !ok {
		return game.Coord{}, fmt.Errorf("coordinate must be col,row")
	}
	c, err := strconv.Atoi(col)
	if err != nil {
		return game.Coord{}, fmt.Errorf("bad column %q", col)
	}
	r, err := strconv.Atoi(row)
	if err != nil {
		return game.Coord{}, fmt.Errorf("bad row %q", row)
	}
	return game.Coord{Col: c, Row: r}, nil
}
