package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"libraryhub/internal/http-api/service"
)

const (
	NoticeCookie = "libraryhub_notice"
	noticeKey    = "notice"
)

// Notices moves a notice left by the previous response from its cookie into
// the request context and expires the cookie, so each notice shows once.
func Notices() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(NoticeCookie)
		if err == nil && raw != "" {
			if n, ok := decodeNotice(raw); ok {
				c.Set(noticeKey, n)
			}
			clearNotice(c)
		}
		c.Next()
	}
}

// SetNotice stores n for the next request, normally the target of a redirect.
func SetNotice(c *gin.Context, n service.Notice, ttl time.Duration) {
	if n.Message == "" {
		return
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     NoticeCookie,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// NoticeFrom returns the notice carried into this request, if any.
func NoticeFrom(c *gin.Context) (service.Notice, bool) {
	v, ok := c.Get(noticeKey)
	if !ok {
		return service.Notice{}, false
	}
	n, ok := v.(service.Notice)
	return n, ok
}

func decodeNotice(raw string) (service.Notice, bool) {
	var n service.Notice
	payload, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return n, false
	}
	if err := json.Unmarshal(payload, &n); err != nil || n.Message == "" {
		return n, false
	}
	switch n.Level {
	case service.LevelSuccess, service.LevelInfo, service.LevelWarning, service.LevelDanger:
	default:
		n.Level = service.LevelInfo
	}
	return n, true
}

func clearNotice(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     NoticeCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
