// Package statsfile persists session tallies into a stats JSON file. Merges
// are path-level updates over whatever the file already holds, so other
// writers' keys survive untouched.
package statsfile

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Store merges match outcomes into one stats file.
type Store struct {
	path string
	mu   sync.Mutex
}

// New creates a store writing to path. The file and its directory are created
// on first merge.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// MergeInput carries one finished match into the file.
type MergeInput struct {
	Mode        string
	PlaySeconds float64
	Cleared     bool   // player one took the match
	WinnerName  string // fighter credited with the clear
	BestStreak  int    // session-best streak so far
}

// Merge folds one match into the stats file: playtime accumulates (two
// decimal places), per-mode match and clear counters advance, and the best
// streak only ever grows.
func (s *Store) Merge(in MergeInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, _ := os.ReadFile(s.path)
	if len(data) == 0 {
		data = []byte(`{}`)
	}

	curPlay := gjson.GetBytes(data, "playtime").Float()
	data, _ = sjson.SetBytes(data, "playtime", round2(curPlay+in.PlaySeconds))

	modeBase := "modes." + in.Mode

	modePlay := gjson.GetBytes(data, modeBase+".playtime").Float()
	data, _ = sjson.SetBytes(data, modeBase+".playtime", round2(modePlay+in.PlaySeconds))

	matches := gjson.GetBytes(data, modeBase+".matches").Int()
	data, _ = sjson.SetBytes(data, modeBase+".matches", matches+1)

	if in.Cleared {
		clearCount := gjson.GetBytes(data, modeBase+".clear").Int()
		data, _ = sjson.SetBytes(data, modeBase+".clear", clearCount+1)
		if in.WinnerName != "" {
			path := modeBase + ".clearcount." + statsKey(in.WinnerName)
			cur := gjson.GetBytes(data, path).Int()
			data, _ = sjson.SetBytes(data, path, cur+1)
		}
	} else if !gjson.GetBytes(data, modeBase+".clear").Exists() {
		data, _ = sjson.SetBytes(data, modeBase+".clear", 0)
	}

	if best := gjson.GetBytes(data, "best_streak").Int(); int64(in.BestStreak) > best {
		data, _ = sjson.SetBytes(data, "best_streak", in.BestStreak)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create stats dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write stats file: %w", err)
	}
	return nil
}

// ModeSummary is the per-mode slice of the stats file.
type ModeSummary struct {
	Playtime float64 `json:"playtime"`
	Matches  int64   `json:"matches"`
	Clears   int64   `json:"clears"`
}

// Summary is the read surface over the stats file.
type Summary struct {
	Playtime   float64                `json:"playtime"`
	BestStreak int64                  `json:"bestStreak"`
	Modes      map[string]ModeSummary `json:"modes"`
}

// Summary reads the stats file back. A missing file reads as an empty
// summary, not an error.
func (s *Store) Summary() (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := Summary{Modes: map[string]ModeSummary{}}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return out, fmt.Errorf("failed to read stats file: %w", err)
	}

	out.Playtime = gjson.GetBytes(data, "playtime").Float()
	out.BestStreak = gjson.GetBytes(data, "best_streak").Int()
	gjson.GetBytes(data, "modes").ForEach(func(name, mode gjson.Result) bool {
		out.Modes[name.String()] = ModeSummary{
			Playtime: mode.Get("playtime").Float(),
			Matches:  mode.Get("matches").Int(),
			Clears:   mode.Get("clear").Int(),
		}
		return true
	})
	return out, nil
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }

// statsKey normalizes a fighter name into a stable JSON key.
func statsKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}
