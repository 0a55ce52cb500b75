package middleware

import (
	"strconv"

	"sms-portal/internal/service"
	"sms-portal/internal/workflow"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const sessionDataKey = "data"

// SaveSession stores the signed-in admin in the session cookie.
func SaveSession(c *gin.Context, actor service.Actor) error {
	s := sessions.Default(c)
	s.Set(sessionDataKey, map[string]interface{}{
		"id":      strconv.FormatUint(uint64(actor.ID), 10),
		"name":    actor.Name,
		"email":   actor.Email,
		"role":    string(actor.Role),
		"faculty": actor.Faculty,
	})
	return s.Save()
}

// ClearSession drops the session and expires the cookie.
func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	return s.Save()
}

// actorFromSession rebuilds the Actor stored by SaveSession. It fails when
// the id or role is missing or malformed.
func actorFromSession(data map[string]interface{}) (service.Actor, bool) {
	str := func(key string) string {
		s, _ := data[key].(string)
		return s
	}
	id, err := strconv.ParseUint(str("id"), 10, 64)
	if err != nil || id == 0 {
		return service.Actor{}, false
	}
	role, err := workflow.ParseRole(str("role"))
	if err != nil {
		return service.Actor{}, false
	}
	return service.Actor{
		ID:      uint(id),
		Name:    str("name"),
		Email:   str("email"),
		Role:    role,
		Faculty: str("faculty"),
	}, true
}

// CurrentActor returns the admin set by RequireAuth.
func CurrentActor(c *gin.Context) (service.Actor, bool) {
	v, ok := c.Get("actor")
	if !ok {
		return service.Actor{}, false
	}
	actor, ok := v.(service.Actor)
	return actor, ok
}
