package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"questboard/internal/domain"
)

// SeedWriter stores a starting roster and quest log so later games can load it.
type SeedWriter struct {
	db *bun.DB
}

func NewSeedWriter(db *bun.DB) *SeedWriter {
	return &SeedWriter{db: db}
}

// WriteSeed upserts every student and quest in one transaction. Rows not in
// the seed are left alone.
func (w *SeedWriter) WriteSeed(ctx context.Context, seed domain.Seed) error {
	students := make([]StudentRow, 0, len(seed.Students))
	for i, s := range seed.Students {
		students = append(students, studentRow(s, i))
	}
	quests := make([]QuestRow, 0, len(seed.Quests))
	for i, q := range seed.Quests {
		quests = append(quests, questRow(q, i))
	}

	return w.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if len(students) > 0 {
			_, err := tx.NewInsert().Model(&students).
				On("CONFLICT (id) DO UPDATE").
				Set("name = EXCLUDED.name").
				Set("hero_name = EXCLUDED.hero_name").
				Set("level = EXCLUDED.level").
				Set("xp = EXCLUDED.xp").
				Set("gold = EXCLUDED.gold").
				Set("midterm_gpa = EXCLUDED.midterm_gpa").
				Set("final_gpa = EXCLUDED.final_gpa").
				Set("body_sprite = EXCLUDED.body_sprite").
				Set("login_streak = EXCLUDED.login_streak").
				Set("position = EXCLUDED.position").
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("write students: %w", err)
			}
		}
		if len(quests) > 0 {
			_, err := tx.NewInsert().Model(&quests).
				On("CONFLICT (id) DO UPDATE").
				Set("title = EXCLUDED.title").
				Set("description = EXCLUDED.description").
				Set("xp = EXCLUDED.xp").
				Set("gold = EXCLUDED.gold").
				Set("type = EXCLUDED.type").
				Set("frequency = EXCLUDED.frequency").
				Set("unlock_at = EXCLUDED.unlock_at").
				Set("correct_answer = EXCLUDED.correct_answer").
				Set("position = EXCLUDED.position").
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("write quests: %w", err)
			}
		}
		return nil
	})
}
