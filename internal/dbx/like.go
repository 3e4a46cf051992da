package dbx

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards in s using PostgreSQL's default escape
// character, so s matches only itself.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ContainsPattern returns a LIKE pattern matching any value containing s.
func ContainsPattern(s string) string {
	return "%" + EscapeLike(s) + "%"
}
