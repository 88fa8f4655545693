package gamification

import "github.com/interview-prep/backend/internal/models"

// LevelDefinition maps a cumulative XP threshold to a level and title.
type LevelDefinition struct {
	Level      int
	Title      string
	XPRequired int64
}

// Levels is the fixed progression table, ascending by XPRequired.
// Level 1 starts at 0 so every user has a level.
var Levels = []LevelDefinition{
	{1, "Intern", 0},
	{2, "Trainee", 100},
	{3, "Junior Candidate", 250},
	{4, "Candidate", 500},
	{5, "Strong Candidate", 1000},
	{6, "Senior Candidate", 2000},
	{7, "Interview Pro", 3500},
	{8, "Offer Magnet", 5500},
	{9, "Negotiator", 8000},
	{10, "Dream-Job Legend", 12000},
}

// LevelForXP returns the level a user with totalXP is at, plus progress
// toward the next level. The current level is the highest threshold not
// exceeding totalXP. At the max level XPNeededForNext is 0 and progress
// reads 100.
func LevelForXP(totalXP int64) models.LevelInfo {
	current := Levels[0]
	next := -1
	for i, def := range Levels {
		if def.XPRequired <= totalXP {
			current = def
			if i+1 < len(Levels) {
				next = i + 1
			} else {
				next = -1
			}
		}
	}

	info := models.LevelInfo{
		Level:       current.Level,
		Title:       current.Title,
		XPIntoLevel: totalXP - current.XPRequired,
	}

	if next == -1 {
		info.XPNeededForNext = 0
		info.ProgressPercent = 100
		return info
	}

	info.XPNeededForNext = Levels[next].XPRequired - current.XPRequired
	pct := int(float64(info.XPIntoLevel)/float64(info.XPNeededForNext)*100 + 0.5)
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	info.ProgressPercent = pct
	return info
}
