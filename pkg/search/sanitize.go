package search

import (
	"strings"

	"github.com/uptrace/bun"
	"golang.org/x/text/cases"
)

const maxQueryLength = 100

// likeEscape is the ESCAPE character used in LIKE clauses. It is not a
// backslash so the same SQL works on SQLite and PostgreSQL.
const likeEscape = "!"

var likeReplacer = strings.NewReplacer(
	likeEscape, likeEscape+likeEscape,
	"%", likeEscape+"%",
	"_", likeEscape+"_",
)

// Fold case-folds s for searching. Stored search columns and query patterns
// must both go through Fold; SQL LOWER() only folds ASCII on SQLite.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// FoldPtr is Fold for nullable values.
func FoldPtr(s *string) *string {
	if s == nil {
		return nil
	}
	folded := Fold(*s)
	return &folded
}

// LikePattern turns user input into a case-folded substring pattern with the
// LIKE wildcards in the input escaped. Blank input yields "".
func LikePattern(input string) string {
	input = strings.TrimSpace(input)
	if r := []rune(input); len(r) > maxQueryLength {
		input = string(r[:maxQueryLength])
	}
	if input == "" {
		return ""
	}
	return "%" + likeReplacer.Replace(Fold(input)) + "%"
}

// WhereContains restricts q to rows whose column contains input. column is
// trusted SQL such as "a.author_name_search" and must hold Fold output.
func WhereContains(q *bun.SelectQuery, column string, input *string) *bun.SelectQuery {
	if input == nil {
		return q
	}
	pattern := LikePattern(*input)
	if pattern == "" {
		return q
	}
	return q.Where("? LIKE ? ESCAPE '"+likeEscape+"'", bun.Safe(column), pattern)
}
