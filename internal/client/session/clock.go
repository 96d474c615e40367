package session

import "time"

// Timer is a pending call scheduled by a Clock.
type Timer interface {
	// Stop prevents the call from running. It reports whether the call was stopped
	// before it ran.
	Stop() bool
}

// Clock schedules the inactivity deadline. Tests replace it with a fake.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
