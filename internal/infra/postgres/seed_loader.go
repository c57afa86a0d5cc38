package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"golang.org/x/sync/errgroup"
	"questboard/internal/domain"
)

// SeedLoader reads the starting roster and quest log from Postgres.
type SeedLoader struct {
	pool *pgxpool.Pool
}

func NewSeedLoader(pool *pgxpool.Pool) *SeedLoader {
	return &SeedLoader{pool: pool}
}

func (l *SeedLoader) LoadSeed(ctx context.Context) (domain.Seed, error) {
	var seed domain.Seed
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		students, err := l.loadStudents(ctx)
		seed.Students = students
		return err
	})
	g.Go(func() error {
		quests, err := l.loadQuests(ctx)
		seed.Quests = quests
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Seed{}, err
	}
	return seed, nil
}

func (l *SeedLoader) loadStudents(ctx context.Context) ([]domain.Student, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT id, name, hero_name, level, xp, gold, midterm_gpa, final_gpa, body_sprite, login_streak
		FROM students ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("load students: %w", err)
	}
	defer rows.Close()

	var students []domain.Student
	for rows.Next() {
		var s domain.Student
		if err := rows.Scan(&s.ID, &s.Name, &s.HeroName, &s.Level, &s.XP, &s.Gold,
			&s.MidtermGPA, &s.FinalGPA, &s.CurrentBodySprite, &s.LoginStreak); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load students: %w", err)
	}
	return students, nil
}

func (l *SeedLoader) loadQuests(ctx context.Context) ([]domain.Quest, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT id, title, description, xp, gold, type, frequency, unlock_at, correct_answer
		FROM quests ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("load quests: %w", err)
	}
	defer rows.Close()

	var quests []domain.Quest
	for rows.Next() {
		var (
			q        domain.Quest
			qType    string
			freq     string
			unlockAt *time.Time
			answer   *string
		)
		if err := rows.Scan(&q.ID, &q.Title, &q.Description, &q.Reward.XP, &q.Reward.Gold,
			&qType, &freq, &unlockAt, &answer); err != nil {
			return nil, fmt.Errorf("scan quest: %w", err)
		}
		q.Type = domain.QuestType(qType)
		q.Frequency = domain.Frequency(freq)
		q.UnlockAt = unlockAt
		if answer != nil {
			q.CorrectAnswer = *answer
		}
		quests = append(quests, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load quests: %w", err)
	}
	return quests, nil
}
