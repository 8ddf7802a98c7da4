// internal/stars/script.go
//
// Star rule backed by a tengo script, so thresholds can change without a rebuild.

package stars

import (
	"fmt"
	"os"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/robalobadob/gameprogress/assets"
)

// Script runs a tengo program per round. The program reads the globals
// score, coins, seconds, won and thresholds, and must define stars.
type Script struct {
	mu       sync.Mutex
	compiled *tengo.Compiled
}

// LoadScript compiles the script at path, or the embedded default when path is empty.
func LoadScript(path string) (*Script, error) {
	if path == "" {
		return NewScript(assets.DefaultStarsScript())
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read star script: %w", err)
	}
	return NewScript(src)
}

// NewScript compiles src.
func NewScript(src []byte) (*Script, error) {
	script := tengo.NewScript(src)
	_ = script.Add("score", 0)
	_ = script.Add("coins", 0)
	_ = script.Add("seconds", 0)
	_ = script.Add("won", false)
	_ = script.Add("thresholds", []interface{}{})
	script.SetImports(stdlib.GetModuleMap("math", "text"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile star script: %w", err)
	}
	if !compiled.IsDefined("stars") {
		return nil, fmt.Errorf("star script does not define `stars`")
	}
	return &Script{compiled: compiled}, nil
}

func (s *Script) NewStarsWon(r Round) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	thresholds := make([]interface{}, len(r.Thresholds))
	for i, v := range r.Thresholds {
		thresholds[i] = v
	}
	for name, v := range map[string]interface{}{
		"score":      r.Score,
		"coins":      r.Coins,
		"seconds":    int(r.Elapsed.Seconds()),
		"won":        r.Won,
		"thresholds": thresholds,
	} {
		if err := s.compiled.Set(name, v); err != nil {
			return 0, fmt.Errorf("set %s: %w", name, err)
		}
	}
	if err := s.compiled.Run(); err != nil {
		return 0, fmt.Errorf("run star script: %w", err)
	}
	return s.compiled.Get("stars").Int() & 7, nil
}
