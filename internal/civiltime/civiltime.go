// Package civiltime converts between the application's fixed local wall-clock
// convention and absolute instants. The home region uses a constant -03:00
// offset and does not observe seasonal offset changes, so a fixed zone is
// deliberately used instead of a rule-based calendar zone.
package civiltime

import (
	"time"

	"room_portal_backend/platform/apperr"
)

const (
	// Layout is the canonical wall-clock layout accepted from clients.
	Layout = "2006-01-02T15:04:05"
	// DisplayLayout is the canonical offset-annotated rendering.
	DisplayLayout = "2006-01-02T15:04:05-07:00"

	offsetSeconds = -3 * 60 * 60
)

// AppZone is the fixed offset of the application's home region.
var AppZone = time.FixedZone("-03:00", offsetSeconds)

// ToInstant interprets s as wall-clock time in the fixed application offset
// and returns the corresponding absolute instant in UTC. Strings carrying
// their own offset are honored as-is.
func ToInstant(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(Layout, s, AppZone); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, apperr.Validation("invalid date-time: " + s)
}

// DisplayString renders an instant as a wall-clock string in the fixed
// application offset, annotated with that offset.
func DisplayString(t time.Time) string {
	return t.In(AppZone).Format(DisplayLayout)
}
