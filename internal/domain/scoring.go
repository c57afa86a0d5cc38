package domain

import "math"

// ScholarScore ranks students by grades plus a tenth of their XP.
// The final grade replaces the midterm once it is recorded.
func ScholarScore(s Student) float64 {
	gpa := s.MidtermGPA
	if s.FinalGPA != nil {
		gpa = *s.FinalGPA
	}
	return gpa + math.Floor(float64(s.XP)*0.1)
}

// ComebackScore is the improvement from midterm to final, 0 until the final is in.
func ComebackScore(s Student) float64 {
	if s.FinalGPA == nil {
		return 0
	}
	return *s.FinalGPA - s.MidtermGPA
}

// XPForNextLevel is the XP mark shown as the goal for the next level.
func XPForNextLevel(level int) int {
	return (level + 1) * 1000
}

// XPProgress is the percentage of the next-level mark already earned.
func XPProgress(s Student) float64 {
	next := XPForNextLevel(s.Level)
	if next <= 0 {
		return 0
	}
	return float64(s.XP) / float64(next) * 100
}

// Category selects how a leaderboard is ordered.
type Category string

const (
	CategoryScholar  Category = "scholar"
	CategoryGrinder  Category = "grinder"
	CategoryComeback Category = "comeback"
	CategoryWealthy  Category = "wealthy"
)

// Categories lists every leaderboard tab.
var Categories = []Category{CategoryScholar, CategoryGrinder, CategoryComeback, CategoryWealthy}

// ParseCategory validates a leaderboard name.
func ParseCategory(raw string) (Category, error) {
	for _, c := range Categories {
		if string(c) == raw {
			return c, nil
		}
	}
	return "", ErrUnknownLeaderboard
}

// Score is the value a student is ranked by in the category.
func (c Category) Score(s Student) float64 {
	switch c {
	case CategoryScholar:
		return ScholarScore(s)
	case CategoryGrinder:
		return float64(s.XP)
	case CategoryComeback:
		return ComebackScore(s)
	case CategoryWealthy:
		return float64(s.Gold)
	default:
		return 0
	}
}

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	Rank              int     `json:"rank"`
	StudentID         string  `json:"studentId"`
	HeroName          string  `json:"heroName"`
	Name              string  `json:"name"`
	CurrentBodySprite string  `json:"currentBodySprite"`
	Score             float64 `json:"score"`
}

// Leaderboard is the ordered board for one category.
type Leaderboard struct {
	Category Category           `json:"category"`
	Entries  []LeaderboardEntry `json:"entries"`
}
