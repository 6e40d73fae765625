package auth

import "strings"

// Claims es la identidad mínima que viaja por el request: el resto
// (rol, verificación) se resuelve contra profiles cuando hace falta.
type Claims struct {
	UserID string
	Email  string
}

// Anonymous indica que el request no trae identidad utilizable.
func (c Claims) Anonymous() bool {
	return strings.TrimSpace(c.UserID) == ""
}
