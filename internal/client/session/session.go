// Package session holds the authenticated identity that every data access
// call carries explicitly.
package session

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/medkeeper/internal/common"
)

// Session is the result of a successful login.
type Session struct {
	UserID      string
	UserName    string
	AccessToken string
}

// Valid reports ErrUnauthorized when s cannot authenticate a request.
func (s Session) Valid() error {
	if s.UserID == "" || s.AccessToken == "" {
		return fmt.Errorf("%w: no active session", common.ErrUnauthorized)
	}
	return nil
}

// DisplayName is the local part of the user name, used as the default
// profile name.
func (s Session) DisplayName() string {
	name, _, _ := strings.Cut(s.UserName, "@")
	return name
}
