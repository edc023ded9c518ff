// README: Anonymous per-browser identity cookie that keys the saved trip list.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ClientCookie  = "tripcost_client"
	clientKeyName = "client_id"
	clientMaxAge  = 400 * 24 * 60 * 60
)

// ClientID makes sure every request carries a client ID, issuing a new cookie
// when the browser has none or an unparseable one.
func ClientID(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(ClientCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(ClientCookie, id, clientMaxAge, "/", "", secure, true)
		}
		c.Set(clientKeyName, id)
		c.Next()
	}
}

// CallerClientID returns the ID set by ClientID, or "" outside of it.
func CallerClientID(c *gin.Context) string {
	return c.GetString(clientKeyName)
}
