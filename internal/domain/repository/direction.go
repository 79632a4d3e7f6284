package repository

import "CoinScreen/internal/domain/models"

// IsValidDirection returns true if d is a supported analysis direction.
func IsValidDirection(d models.Direction) bool {
	switch d {
	case models.DirectionBackward, models.DirectionForward:
		return true
	default:
		return false
	}
}

// DefaultDirection returns the default analysis direction.
func DefaultDirection() models.Direction { return models.DirectionBackward }

// NormalizeDirection converts a raw string to a valid direction (or default).
func NormalizeDirection(s string) models.Direction {
	if s == "" {
		return DefaultDirection()
	}
	d := models.Direction(s)
	if IsValidDirection(d) {
		return d
	}
	return DefaultDirection()
}

// IsValidOrderBy returns true if o is a supported leaderboard sort key.
func IsValidOrderBy(o models.OrderBy) bool {
	switch o {
	case models.OrderByTotalScore, models.OrderByAverageReturn, models.OrderByBestRank:
		return true
	default:
		return false
	}
}

// DefaultOrderBy returns the default leaderboard sort key.
func DefaultOrderBy() models.OrderBy { return models.OrderByTotalScore }

// NormalizeOrderBy converts a raw string to a valid sort key (or default).
func NormalizeOrderBy(s string) models.OrderBy {
	if s == "" {
		return DefaultOrderBy()
	}
	o := models.OrderBy(s)
	if IsValidOrderBy(o) {
		return o
	}
	return DefaultOrderBy()
}
