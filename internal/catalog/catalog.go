// Package catalog holds the reference books and their chapter lists.
package catalog

import (
	"strings"

	"github.com/soumil/jeeprep/internal/domain"
)

// Placeholder is the link value used for material that has not been published yet.
const Placeholder = "#"

// Catalog is an immutable, ordered set of books indexed by chapter code.
type Catalog struct {
	books  []domain.Book
	byCode map[string]chapterRef
	codes  []string
}

type chapterRef struct {
	book    int
	chapter int
}

// New builds a catalog from books. Duplicate chapter codes keep the first occurrence.
func New(books []domain.Book) *Catalog {
	c := &Catalog{
		books:  books,
		byCode: make(map[string]chapterRef),
	}
	for bi, b := range books {
		for ci, ch := range b.Chapters {
			if _, dup := c.byCode[ch.Code]; dup {
				continue
			}
			c.byCode[ch.Code] = chapterRef{book: bi, chapter: ci}
			c.codes = append(c.codes, ch.Code)
		}
	}
	return c
}

// Books returns a copy of the books in display order.
func (c *Catalog) Books() []domain.Book {
	out := make([]domain.Book, len(c.books))
	for i, b := range c.books {
		b.Chapters = append([]domain.Chapter(nil), b.Chapters...)
		out[i] = b
	}
	return out
}

// Codes returns every chapter code in display order.
func (c *Catalog) Codes() []string {
	out := make([]string, len(c.codes))
	copy(out, c.codes)
	return out
}

// Lookup returns the chapter and the book that contains it.
func (c *Catalog) Lookup(code string) (domain.Chapter, domain.Book, bool) {
	ref, ok := c.byCode[code]
	if !ok {
		return domain.Chapter{}, domain.Book{}, false
	}
	book := c.books[ref.book]
	return book.Chapters[ref.chapter], book, true
}

// Resolve returns the link to open for url. Empty and placeholder links are
// no-ops and report false.
func Resolve(url string) (string, bool) {
	url = strings.TrimSpace(url)
	if url == "" || url == Placeholder {
		return "", false
	}
	return url, true
}
