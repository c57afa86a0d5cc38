package memory

import (
	"context"

	"questboard/internal/domain"
)

// StaticSeedLoader is a loader backed by an in-memory seed (useful for tests/demos).
type StaticSeedLoader struct {
	seed domain.Seed
}

func NewStaticSeedLoader(seed domain.Seed) *StaticSeedLoader {
	return &StaticSeedLoader{seed: seed}
}

func (l *StaticSeedLoader) LoadSeed(_ context.Context) (domain.Seed, error) {
	out := domain.Seed{
		Students: make([]domain.Student, 0, len(l.seed.Students)),
		Quests:   append([]domain.Quest(nil), l.seed.Quests...),
	}
	for _, s := range l.seed.Students {
		out.Students = append(out.Students, s.Clone())
	}
	return out, nil
}

// DemoSeed is the classroom every fresh game starts with when no database
// is configured.
func DemoSeed() domain.Seed {
	final := func(v float64) *float64 { return &v }
	return domain.Seed{
		Students: []domain.Student{
			{ID: "1", Name: "John Doe", HeroName: "Sir Lancelot", Level: 5, XP: 1250, Gold: 400, MidtermGPA: 78, FinalGPA: final(85), LoginStreak: 3},
			{ID: "2", Name: "Jane Smith", HeroName: "Lady Arwen", Level: 6, XP: 1450, Gold: 120, MidtermGPA: 91},
			{ID: "3", Name: "Mike Ross", HeroName: "Ranger Rick", Level: 3, XP: 800, Gold: 550, MidtermGPA: 64, FinalGPA: final(82), LoginStreak: 1},
			{ID: "4", Name: "Sarah Connor", HeroName: "The Terminator", Level: 4, XP: 1100, Gold: 50, MidtermGPA: 85, FinalGPA: final(80)},
			{ID: "5", Name: "Bruce Wayne", HeroName: "Dark Knight", Level: 7, XP: 2000, Gold: 900, MidtermGPA: 88, LoginStreak: 7},
		},
		Quests: []domain.Quest{
			{
				ID:          "101",
				Title:       "Math Worksheet",
				Description: "Upload a photo of your completed algebra sheet.",
				Reward:      domain.Reward{XP: 50, Gold: 20},
				Type:        domain.QuestUpload,
				Frequency:   domain.FrequencyOnce,
			},
			{
				ID:          "102",
				Title:       "Science Project",
				Description: "Submit a picture of your science fair poster.",
				Reward:      domain.Reward{XP: 100, Gold: 50},
				Type:        domain.QuestUpload,
				Frequency:   domain.FrequencyOnce,
			},
			{
				ID:            "103",
				Title:         "Daily Riddle",
				Description:   "What has keys but can't open locks?",
				Reward:        domain.Reward{XP: 20, Gold: 5},
				Type:          domain.QuestQuiz,
				Frequency:     domain.FrequencyDaily,
				CorrectAnswer: "piano",
			},
		},
	}
}
