package gamification

import "testing"

func TestLevelForXPZero(t *testing.T) {
	info := LevelForXP(0)
	if info.Level != 1 {
		t.Errorf("LevelForXP(0).Level = %d, want 1", info.Level)
	}
	if info.Title != "Intern" {
		t.Errorf("LevelForXP(0).Title = %q, want Intern", info.Title)
	}
	if info.XPIntoLevel != 0 {
		t.Errorf("LevelForXP(0).XPIntoLevel = %d, want 0", info.XPIntoLevel)
	}
	if info.ProgressPercent != 0 {
		t.Errorf("LevelForXP(0).ProgressPercent = %d, want 0", info.ProgressPercent)
	}
}

func TestLevelForXPBoundaries(t *testing.T) {
	// Exactly at a threshold the user is at that level with zero progress
	// into it. One XP below stays on the previous level.
	for i, def := range Levels {
		got := LevelForXP(def.XPRequired)
		if got.Level != def.Level {
			t.Errorf("LevelForXP(%d).Level = %d, want %d", def.XPRequired, got.Level, def.Level)
		}
		if got.XPIntoLevel != 0 {
			t.Errorf("LevelForXP(%d).XPIntoLevel = %d, want 0", def.XPRequired, got.XPIntoLevel)
		}

		if i > 0 {
			below := LevelForXP(def.XPRequired - 1)
			if below.Level != Levels[i-1].Level {
				t.Errorf("LevelForXP(%d).Level = %d, want %d", def.XPRequired-1, below.Level, Levels[i-1].Level)
			}
		}
	}
}

func TestLevelForXPMonotonic(t *testing.T) {
	prev := 0
	for xp := int64(0); xp <= 15000; xp += 37 {
		level := LevelForXP(xp).Level
		if level < prev {
			t.Fatalf("level decreased from %d to %d at xp=%d", prev, level, xp)
		}
		prev = level
	}
}

func TestLevelForXPMaxLevel(t *testing.T) {
	top := Levels[len(Levels)-1]
	info := LevelForXP(top.XPRequired + 5000)
	if info.Level != top.Level {
		t.Errorf("max level = %d, want %d", info.Level, top.Level)
	}
	if info.XPNeededForNext != 0 {
		t.Errorf("XPNeededForNext at max level = %d, want 0", info.XPNeededForNext)
	}
	if info.ProgressPercent != 100 {
		t.Errorf("ProgressPercent at max level = %d, want 100", info.ProgressPercent)
	}
}

func TestLevelForXPProgress(t *testing.T) {
	// Level 1 spans 0..99, so 50 XP is halfway.
	info := LevelForXP(50)
	if info.ProgressPercent != 50 {
		t.Errorf("LevelForXP(50).ProgressPercent = %d, want 50", info.ProgressPercent)
	}
	if info.XPNeededForNext != 100 {
		t.Errorf("LevelForXP(50).XPNeededForNext = %d, want 100", info.XPNeededForNext)
	}
}

func TestLevelTableOrdering(t *testing.T) {
	for i := 1; i < len(Levels); i++ {
		if Levels[i].XPRequired <= Levels[i-1].XPRequired {
			t.Errorf("level table not strictly increasing at index %d", i)
		}
		if Levels[i].Level != Levels[i-1].Level+1 {
			t.Errorf("level numbers not consecutive at index %d", i)
		}
	}
	if Levels[0].XPRequired != 0 {
		t.Errorf("first level must start at 0 XP, got %d", Levels[0].XPRequired)
	}
}
