// Package reqctx carries the caller's identity through service calls as an
// explicit value instead of shared request state.
package reqctx

import "github.com/loycekalume/LifeStyleCoach-sub001/internal/models"

type Context struct {
	UserID    string
	Role      models.Role
	RequestID string
}

func New(userID string, role models.Role, requestID string) Context {
	return Context{UserID: userID, Role: role, RequestID: requestID}
}

func (c Context) Authenticated() bool {
	return c.UserID != ""
}

func (c Context) Is(roles ...models.Role) bool {
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}
