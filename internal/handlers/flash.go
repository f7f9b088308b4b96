package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"bookhub-dashboard/internal/cache"
)

const flashCookie = "bookhub_flash"

// FlashStore keeps one-shot notices between a POST and the redirected GET
type FlashStore struct {
	notices *cache.TTLCache[string]
}

// NewFlashStore creates a flash store on top of notices
func NewFlashStore(notices *cache.TTLCache[string]) *FlashStore {
	return &FlashStore{notices: notices}
}

// Set stores message and points the client at it with a cookie
func (f *FlashStore) Set(w http.ResponseWriter, message string) {
	id := uuid.NewString()
	f.notices.Set(id, message)
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns the pending notice for this client, if any, and clears it
func (f *FlashStore) Pop(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookie)
	if err != nil {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:   flashCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	if _, err := uuid.Parse(cookie.Value); err != nil {
		return ""
	}
	message, _ := f.notices.Pop(cookie.Value)
	return message
}
