package profiles

import "time"

// Profile is the per-user root that owns resumes.
type Profile struct {
	ID        string
	UserID    string
	Headline  string
	CreatedAt time.Time
}
