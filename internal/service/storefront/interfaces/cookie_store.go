// internal/service/storefront/interfaces/cookie_store.go
package interfaces

import (
	"net/http"
	"time"

	"bazaar/internal/pkg/constants"
)

// cookieStore 把会话标识存进浏览器 Cookie，实现 session.Store。
// 标识只在第一次缺失时生成一次，之后保持稳定。
type cookieStore struct {
	w http.ResponseWriter
	r *http.Request
}

func newCookieStore(w http.ResponseWriter, r *http.Request) *cookieStore {
	return &cookieStore{w: w, r: r}
}

func (s *cookieStore) Load() (string, bool) {
	cookie, err := s.r.Cookie(constants.CartSessionCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (s *cookieStore) Save(id string) {
	http.SetCookie(s.w, &http.Cookie{
		Name:     constants.CartSessionCookie,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
