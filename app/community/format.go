package community

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"conexa/app/models"
)

const (
	// FeedAuthorFallback names anonymous authors in the feed.
	FeedAuthorFallback = "Anónimo"
	// DetailAuthorFallback names anonymous authors in a thread.
	DetailAuthorFallback = "Usuario"
	// SidebarForums is how many forums the home sidebar lists.
	SidebarForums = 5
)

// TimeAgo renders how long ago t was: "Reciente" within the hour, then
// hours ("5h") and days ("3d").
func TimeAgo(t, now time.Time) string {
	hours := int(now.Sub(t).Hours())
	switch {
	case hours < 1:
		return "Reciente"
	case hours < 24:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dd", hours/24)
	}
}

// Initials returns the upper-cased first letters of the first two words of
// name, or "?".
func Initials(name string) string {
	var b strings.Builder
	for i, word := range strings.Fields(name) {
		if i == 2 {
			break
		}
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return "?"
	}
	return strings.ToUpper(b.String())
}

// DisplayName returns name, or fallback when it is blank.
func DisplayName(name, fallback string) string {
	if strings.TrimSpace(name) == "" {
		return fallback
	}
	return name
}

// AvatarURL returns avatar, or a generated avatar for name.
func AvatarURL(avatar, name string) string {
	if avatar != "" {
		return avatar
	}
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=random"
}

// Sidebar returns the forums the home sidebar lists.
func Sidebar(forums []models.Forum) []models.Forum {
	if len(forums) > SidebarForums {
		return forums[:SidebarForums]
	}
	return forums
}

// ActiveTitle names the feed section for selector.
func ActiveTitle(forums []models.Forum, selector string) string {
	if selector == models.GeneralTopic || selector == "" {
		return "Discusión General"
	}
	for _, f := range forums {
		if f.ID == selector {
			return f.Title
		}
	}
	return "Posts"
}
