// Package gate implements the per-chapter unlock state machine.
//
// Every chapter starts Locked. Opening the chapter moves it to Solved, and a
// mock test score at or above progress.PassThreshold moves it to Unlocked,
// which is terminal.
package gate

import (
	"errors"
	"sync"

	"github.com/soumil/jeeprep/internal/domain"
	"github.com/soumil/jeeprep/internal/progress"
)

// State is a chapter's position in the unlock state machine.
type State int

const (
	Locked State = iota
	Solved
	Unlocked
)

func (s State) String() string {
	switch s {
	case Locked:
		return "locked"
	case Solved:
		return "solved"
	case Unlocked:
		return "unlocked"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

var (
	// ErrChapterLocked is returned when a test is attempted before the chapter was opened.
	ErrChapterLocked = errors.New("chapter locked: open the chapter first")

	// ErrUnknownChapter is returned for codes outside the gate's chapter set.
	ErrUnknownChapter = errors.New("unknown chapter")
)

// Outcome describes the effect of a submitted score.
type Outcome struct {
	Code         string `json:"code"`
	Score        int    `json:"score"`
	State        State  `json:"state"`
	Recorded     bool   `json:"recorded"`
	JustUnlocked bool   `json:"just_unlocked"`
	Progress     int    `json:"progress"`
}

// ChapterView is a read-only snapshot of one chapter.
type ChapterView struct {
	Code      string `json:"code"`
	Solved    bool   `json:"solved"`
	TestScore int    `json:"test_score"`
	State     State  `json:"state"`
	Progress  int    `json:"progress"`
}

// Gate tracks unlock state for a fixed set of chapters.
type Gate struct {
	mu       sync.Mutex
	order    []string
	chapters map[string]*chapter
}

type chapter struct {
	domain.ChapterState
	unlocked bool
}

func (c *chapter) state() State {
	switch {
	case c.unlocked:
		return Unlocked
	case c.Solved:
		return Solved
	default:
		return Locked
	}
}

func (c *chapter) view(code string) ChapterView {
	return ChapterView{
		Code:      code,
		Solved:    c.Solved,
		TestScore: c.TestScore,
		State:     c.state(),
		Progress:  progress.Compute(c.Solved, c.TestScore),
	}
}

// New creates a gate with every chapter Locked and scored 0.
func New(codes []string) *Gate {
	g := &Gate{chapters: make(map[string]*chapter, len(codes))}
	for _, code := range codes {
		if _, dup := g.chapters[code]; dup {
			continue
		}
		g.chapters[code] = &chapter{}
		g.order = append(g.order, code)
	}
	return g
}

// Open marks the chapter as solved. Reports whether the state changed.
func (g *Gate) Open(code string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ch, ok := g.chapters[code]
	if !ok {
		return false, ErrUnknownChapter
	}
	if ch.Solved {
		return false, nil
	}
	ch.Solved = true
	return true, nil
}

// Submit routes a test score into the chapter's state.
// A Locked chapter rejects the score; an Unlocked chapter ignores it.
func (g *Gate) Submit(code string, score int) (Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ch, ok := g.chapters[code]
	if !ok {
		return Outcome{}, ErrUnknownChapter
	}

	score = progress.ClampScore(score)
	out := Outcome{Code: code, Score: score}

	switch ch.state() {
	case Locked:
		return Outcome{}, ErrChapterLocked
	case Solved:
		ch.TestScore = score
		out.Recorded = true
		if progress.Passed(score) {
			ch.unlocked = true
			out.JustUnlocked = true
		}
	case Unlocked:
	}

	out.State = ch.state()
	out.Progress = progress.Compute(ch.Solved, ch.TestScore)
	return out, nil
}

// State returns the chapter's current state.
func (g *Gate) State(code string) (State, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ch, ok := g.chapters[code]
	if !ok {
		return Locked, ErrUnknownChapter
	}
	return ch.state(), nil
}

// Chapter returns a snapshot of one chapter.
func (g *Gate) Chapter(code string) (ChapterView, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ch, ok := g.chapters[code]
	if !ok {
		return ChapterView{}, ErrUnknownChapter
	}
	return ch.view(code), nil
}

// Progress returns the chapter's progress percentage.
func (g *Gate) Progress(code string) (int, error) {
	v, err := g.Chapter(code)
	if err != nil {
		return 0, err
	}
	return v.Progress, nil
}

// Snapshot returns every chapter in construction order.
func (g *Gate) Snapshot() []ChapterView {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]ChapterView, 0, len(g.order))
	for _, code := range g.order {
		out = append(out, g.chapters[code].view(code))
	}
	return out
}

// AllUnlocked reports whether every chapter is solved with a passing score.
// A gate with no chapters is never fully unlocked.
func (g *Gate) AllUnlocked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.chapters) == 0 {
		return false
	}
	for _, ch := range g.chapters {
		if !ch.Solved || !progress.Passed(ch.TestScore) {
			return false
		}
	}
	return true
}
