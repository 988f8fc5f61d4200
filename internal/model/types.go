// Package model defines shared data structures.
package model

import "time"

// Stats summarizes a meditation history. It is derived on every request and
// never persisted.
type Stats struct {
	TotalHoursMeditated          float64
	AverageDurationPerMeditation float64 // seconds
	DaysMeditatedInRow           int
	TotalMeditationSessions      int
	FavoriteCategory             string
	FavoriteSpeaker              string
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since    *time.Time
	Last     int
	Category string
	Speaker  string
	Days     int // width of the per-day activity window
}

// SessionConfig defines timer settings.
type SessionConfig struct {
	Category string
	Speaker  string
	Target   time.Duration // zero means open-ended
}
