package session

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const flashCookie = "notes_flash"

// Flashes carries one-shot notices ("Note created") across the redirect that
// follows every successful form post.
type Flashes struct {
	store *sessions.CookieStore
}

func NewFlashes(secret string) *Flashes {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300, // flashes are read on the very next page load
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Flashes{store: store}
}

// Add queues a notice for the next rendered page.
func (f *Flashes) Add(w http.ResponseWriter, r *http.Request, msg string) {
	sess, _ := f.store.Get(r, flashCookie)
	sess.AddFlash(msg)
	_ = sess.Save(r, w)
}

// Pop returns queued notices and clears them.
func (f *Flashes) Pop(w http.ResponseWriter, r *http.Request) []string {
	sess, _ := f.store.Get(r, flashCookie)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = sess.Save(r, w)

	msgs := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			msgs = append(msgs, s)
		}
	}
	return msgs
}
