package models

import "time"

type MatchID string

type Match struct {
	ID         MatchID
	HomeTeam   string
	AwayTeam   string
	Stadium    string
	City       string
	State      string
	Location   Coordinates
	KickoffUTC time.Time
}

type MatchWithDistance struct {
	Match
	DistanceKm *float64
	// KickoffLabel is the kickoff in the display timezone and locale.
	KickoffLabel string
}
