package utils

import (
	"time"

	"divelink/internal/models"
)

// LevelIcon maps a certification level to its badge emoji.
func LevelIcon(level string) string {
	switch level {
	case models.LevelOpenWater:
		return "🅞"
	case models.LevelAdvance:
		return "🅐"
	case models.LevelRescue:
		return "🅡"
	case models.LevelDiveMaster:
		return "🅜"
	case models.LevelInstructor:
		return "🅘"
	case models.LevelTrainer:
		return "🅣"
	default:
		return "👤"
	}
}

// levelRank orders certification levels for board write gates.
func levelRank(level string) int {
	switch level {
	case models.LevelOpenWater:
		return 1
	case models.LevelAdvance:
		return 2
	case models.LevelRescue:
		return 3
	case models.LevelDiveMaster:
		return 4
	case models.LevelInstructor:
		return 5
	case models.LevelTrainer:
		return 6
	default:
		return 0
	}
}

// MeetsLevel reports whether a user's certification level satisfies the
// board's minimum. An empty minimum means anyone may write.
func MeetsLevel(userLevel, minLevel string) bool {
	if minLevel == "" {
		return true
	}
	return levelRank(userLevel) >= levelRank(minLevel)
}

// GetDaysSinceJoined returns whole days since signup.
func GetDaysSinceJoined(createdAt time.Time) int {
	return int(time.Since(createdAt).Hours() / 24)
}
