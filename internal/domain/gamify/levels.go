package gamify

// Level is one row of the level threshold table.
type Level struct {
	Level   int    `json:"level"`
	MinXp   int    `json:"min_xp"`
	Title   string `json:"title"`
	TitleFr string `json:"title_fr"`
}

// levelThresholds is ordered by MinXp ascending. A learner's level is the
// highest row whose MinXp does not exceed their total XP.
var levelThresholds = []Level{
	{Level: 1, MinXp: 0, Title: "Beginner", TitleFr: "Débutant"},
	{Level: 2, MinXp: 100, Title: "Novice", TitleFr: "Novice"},
	{Level: 3, MinXp: 300, Title: "Apprentice", TitleFr: "Apprenti"},
	{Level: 4, MinXp: 600, Title: "Intermediate", TitleFr: "Intermédiaire"},
	{Level: 5, MinXp: 1000, Title: "Proficient", TitleFr: "Compétent"},
	{Level: 6, MinXp: 1500, Title: "Advanced", TitleFr: "Avancé"},
	{Level: 7, MinXp: 2200, Title: "Expert", TitleFr: "Expert"},
	{Level: 8, MinXp: 3000, Title: "Master", TitleFr: "Maître"},
	{Level: 9, MinXp: 4000, Title: "Champion", TitleFr: "Champion"},
	{Level: 10, MinXp: 5500, Title: "Legend", TitleFr: "Légende"},
}

// LevelForXp returns the level a learner with the given total XP holds.
// Negative totals are treated as zero.
func LevelForXp(totalXp int) Level {
	current := levelThresholds[0]
	for _, l := range levelThresholds {
		if totalXp >= l.MinXp {
			current = l
		} else {
			break
		}
	}
	return current
}

// NextLevel returns the level after the given one, or false if the learner
// is already at the top of the table.
func NextLevel(level int) (Level, bool) {
	for _, l := range levelThresholds {
		if l.Level == level+1 {
			return l, true
		}
	}
	return Level{}, false
}

// ProgressPercent reports how far a learner's total XP has progressed from
// their current level threshold toward the next, in whole percent. A
// learner at the top level is always at 100%.
func ProgressPercent(totalXp int) int {
	current := LevelForXp(totalXp)
	next, ok := NextLevel(current.Level)
	if !ok {
		return 100
	}

	span := next.MinXp - current.MinXp
	pct := (totalXp - current.MinXp) * 100 / span
	if pct > 100 {
		pct = 100
	}
	return pct
}
