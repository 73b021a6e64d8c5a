// Package services – presence status rendering.
//
// The status line shown in a chat header ("Online", "Offline", "Visto por
// último há 5 min") is derived from the counterparty's presence row through
// the freshness gate: a stale is_online flag renders as the last-seen form,
// never as Online. Copy is Portuguese by default with an English variant,
// selected through a language matcher.
package services

import (
	"fmt"
	"time"

	"golang.org/x/text/language"

	"github.com/biscato-app/go-marketplace-backend/internal/domain"
)

var statusLocales = language.NewMatcher([]language.Tag{
	language.Portuguese, // default
	language.English,
})

// StatusText renders the chat-header presence line for the given row at the
// given instant. A nil row or one without a last-seen timestamp renders as
// plain Offline.
func StatusText(p *domain.Presence, now time.Time, loc language.Tag) string {
	_, idx, _ := statusLocales.Match(loc)
	en := idx == 1

	if p.ActuallyOnline(now) {
		return "Online"
	}
	if p == nil || p.LastSeen.IsZero() {
		return "Offline"
	}
	if en {
		return "Last seen " + relativeTimeEN(p.LastSeen, now)
	}
	return "Visto por último " + relativeTimePT(p.LastSeen, now)
}

func relativeTimePT(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "agora mesmo"
	case d < time.Hour:
		return fmt.Sprintf("há %d min", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("há %dh", int(d.Hours()))
	case d < 48*time.Hour:
		return "ontem às " + t.Format("15:04")
	default:
		return "em " + t.Format("02/01/2006")
	}
}

func relativeTimeEN(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d min ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 48*time.Hour:
		return "yesterday at " + t.Format("15:04")
	default:
		return "on " + t.Format("02/01/2006")
	}
}
