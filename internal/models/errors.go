package models

import "errors"

// Custom errors
var (
	ErrNotFound         = errors.New("record not found")
	ErrInvalidScope     = errors.New("invalid settings scope")
	ErrUnknownMarket    = errors.New("unknown market label")
	ErrUndatedFixture   = errors.New("fixture has no kickoff date")
	ErrTeamNotInFixture = errors.New("team does not play in fixture")
	ErrNoFixtures       = errors.New("no fixtures found")
)
