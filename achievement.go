package main

// Achievement definitions
type AchievementDef struct {
	ID          string
	Name        string
	Description string
}

var Achievements = []AchievementDef{
	{"first_blood", "First Blood", "Splat your first opponent"},
	{"splat_artist", "Splat Artist", "Reach 50 total kills"},
	{"ink_storm", "Ink Storm", "Reach 500 total kills"},
	{"roller", "Roller", "Paint 1,000 tiles"},
	{"muralist", "Muralist", "Paint 50,000 tiles"},
	{"scrubber", "Scrubber", "Erase 1,000 enemy tiles"},
	{"clean_slate", "Clean Slate", "Erase 25,000 enemy tiles"},
	{"regular", "Regular", "Play 10 sessions"},
	{"marathoner", "Marathoner", "Play for 1 hour total"},
	{"ink_veteran", "Ink Veteran", "Play for 10 hours total"},
}

// CheckAchievements checks if any new achievements should be unlocked for a
// player based on lifetime stats. Returns the newly unlocked definitions.
func CheckAchievements(db *DB, playerID int64) []AchievementDef {
	if db == nil {
		return nil
	}

	stats, err := db.GetStats(playerID)
	if err != nil || stats == nil {
		return nil
	}

	existing, err := db.GetAchievements(playerID)
	if err != nil {
		return nil
	}
	has := make(map[string]bool, len(existing))
	for _, a := range existing {
		has[a] = true
	}

	var unlocked []AchievementDef

	check := func(id string) bool {
		if has[id] {
			return false
		}
		switch id {
		case "first_blood":
			return stats.Kills >= 1
		case "splat_artist":
			return stats.Kills >= 50
		case "ink_storm":
			return stats.Kills >= 500
		case "roller":
			return stats.TilesPainted >= 1000
		case "muralist":
			return stats.TilesPainted >= 50000
		case "scrubber":
			return stats.TilesErased >= 1000
		case "clean_slate":
			return stats.TilesErased >= 25000
		case "regular":
			return stats.Sessions >= 10
		case "marathoner":
			return stats.Playtime >= 3600
		case "ink_veteran":
			return stats.Playtime >= 36000
		}
		return false
	}

	for _, def := range Achievements {
		if check(def.ID) {
			if newlyUnlocked, err := db.UnlockAchievement(playerID, def.ID); err == nil && newlyUnlocked {
				unlocked = append(unlocked, def)
			}
		}
	}

	return unlocked
}
