package calendar

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

// placeholderPrefix tags locally generated event ids so reschedule and cancel
// know never to send them to the external provider.
const placeholderPrefix = "local-"

// PlaceholderEventID returns a synthetic event id distinguishable from real
// provider ids.
func PlaceholderEventID() string {
	return placeholderPrefix + uuid.NewString()
}

// IsPlaceholderEventID reports whether id was generated locally.
func IsPlaceholderEventID(id string) bool {
	return strings.HasPrefix(id, placeholderPrefix)
}

// PlaceholderMeetURL synthesizes a meeting link shaped like a real video-call
// URL: three dash-separated lowercase groups of length 3, 4, 3.
func PlaceholderMeetURL() string {
	return fmt.Sprintf("https://meet.google.com/%s-%s-%s", randomGroup(3), randomGroup(4), randomGroup(3))
}

func randomGroup(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('a' + rand.Intn(26))
	}
	return string(b)
}
