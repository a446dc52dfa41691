package domain

// Book is a reference book with an ordered chapter list.
type Book struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Author   string    `json:"author"`
	Chapters []Chapter `json:"chapters"`
}

// Chapter is a unit of reference material with its own unlock state.
type Chapter struct {
	Code     string `json:"code"`
	Number   int    `json:"number"`
	Title    string `json:"title"`
	URL      string `json:"-"`
	BonusURL string `json:"-"`
}

// ChapterState is the per-session progress for one chapter.
type ChapterState struct {
	Solved    bool `json:"solved"`
	TestScore int  `json:"test_score"`
}
