package util

import (
    "fmt"
    "time"
)

// FormatAge renders an elapsed duration for cache-age captions:
// "just now", whole minutes, fractional hours, then fractional days.
func FormatAge(d time.Duration) string {
    secs := d.Seconds()
    switch {
    case secs < 60:
        return "just now"
    case secs < 3600:
        mins := int(secs / 60)
        if mins == 1 {
            return "1 min ago"
        }
        return fmt.Sprintf("%d mins ago", mins)
    case secs < 86400:
        return fmt.Sprintf("%.1f h ago", secs/3600)
    default:
        return fmt.Sprintf("%.1f d ago", secs/86400)
    }
}
