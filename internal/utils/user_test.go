package utils

import (
	"testing"
	"time"

	"divelink/internal/models"
)

func TestLevelIcon(t *testing.T) {
	cases := []struct {
		level string
		icon  string
	}{
		{models.LevelOpenWater, "🅞"},
		{models.LevelAdvance, "🅐"},
		{models.LevelRescue, "🅡"},
		{models.LevelDiveMaster, "🅜"},
		{models.LevelInstructor, "🅘"},
		{models.LevelTrainer, "🅣"},
		{"", "👤"},
		{"Snorkeler", "👤"},
	}
	for _, tc := range cases {
		if got := LevelIcon(tc.level); got != tc.icon {
			t.Errorf("LevelIcon(%q) = %q, want %q", tc.level, got, tc.icon)
		}
	}
}

func TestMeetsLevel(t *testing.T) {
	if !MeetsLevel(models.LevelOpenWater, "") {
		t.Error("Empty minimum should allow everyone")
	}
	if !MeetsLevel(models.LevelInstructor, models.LevelInstructor) {
		t.Error("Instructor should meet the instructor gate")
	}
	if !MeetsLevel(models.LevelTrainer, models.LevelInstructor) {
		t.Error("Trainer should meet the instructor gate")
	}
	if MeetsLevel(models.LevelDiveMaster, models.LevelInstructor) {
		t.Error("DiveMaster should not meet the instructor gate")
	}
	if MeetsLevel("unknown", models.LevelOpenWater) {
		t.Error("Unknown level should not meet any gate")
	}
}

func TestGetDaysSinceJoined(t *testing.T) {
	joined := time.Now().Add(-72 * time.Hour)
	if days := GetDaysSinceJoined(joined); days != 3 {
		t.Errorf("Expected 3 days, got %d", days)
	}
}
