package repository

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards with a backslash so term matches
// literally. Queries must declare ESCAPE '\'.
func EscapeLike(term string) string {
	return likeEscaper.Replace(term)
}
