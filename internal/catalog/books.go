package catalog

import (
	"fmt"
	"strings"

	"github.com/soumil/jeeprep/internal/domain"
)

type chapterSeed struct {
	num       int
	title     string
	published bool
}

var hcvChapters = []chapterSeed{
	{1, "Introduction to Physics", true},
	{2, "Physics and Mathematics", true},
	{3, "Rest and Motion: Kinematics", true},
	{4, "The Forces", true},
	{5, "Newton's Laws of Motion", true},
	{6, "Friction", true},
	{7, "Circular Motion", true},
	{8, "Work and Energy", true},
	{9, "Centre of Mass, Linear Momentum, Collision", true},
	{10, "Rotational Mechanics", false},
}

var irodovChapters = []chapterSeed{
	{1, "Kinematics", true},
	{2, "The Fundamental Equation of Dynamics", true},
	{3, "Laws of Conservation of Energy, Momentum and Angular Momentum", true},
	{4, "Universal Gravitation", true},
	{5, "Dynamics of a Solid Body", true},
	{6, "Elastic Deformations of a Solid Body", false},
	{7, "Hydrodynamics", false},
	{8, "Relativistic Mechanics", false},
}

// Default returns the two-book catalog with material links rooted at baseURL.
// Unpublished chapters carry placeholder links.
func Default(baseURL string) *Catalog {
	baseURL = strings.TrimRight(baseURL, "/")
	return New([]domain.Book{
		build("hcv", "HCV", "Concepts of Physics, Vol. 1", "H. C. Verma", baseURL, hcvChapters),
		build("irodov", "IRO", "Problems in General Physics", "I. E. Irodov", baseURL, irodovChapters),
	})
}

func build(id, prefix, title, author, baseURL string, seeds []chapterSeed) domain.Book {
	book := domain.Book{ID: id, Title: title, Author: author}
	for _, s := range seeds {
		ch := domain.Chapter{
			Code:     fmt.Sprintf("%s-%02d", prefix, s.num),
			Number:   s.num,
			Title:    s.title,
			URL:      Placeholder,
			BonusURL: Placeholder,
		}
		if s.published && baseURL != "" {
			ch.URL = fmt.Sprintf("%s/%s/%02d", baseURL, id, s.num)
			ch.BonusURL = fmt.Sprintf("%s/%s/%02d/sd", baseURL, id, s.num)
		}
		book.Chapters = append(book.Chapters, ch)
	}
	return book
}
