package views

import (
	"encoding/base64"
	"net/http"
)

// FlashCookie carries the success message across the post-redirect-get.
const FlashCookie = "listviews_flash"

// SetFlash stores message for the next request.
func SetFlash(w http.ResponseWriter, message string) {
	if message == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookie,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(message)),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash returns the pending message, if any, and expires the cookie.
func PopFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(FlashCookie)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: FlashCookie, Value: "", Path: "/", MaxAge: -1})
	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return ""
	}
	return string(raw)
}
