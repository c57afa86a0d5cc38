package postgres

import (
	"time"

	"github.com/uptrace/bun"
	"questboard/internal/domain"
)

// StudentRow is the students table.
type StudentRow struct {
	bun.BaseModel `bun:"table:students,alias:s"`

	ID          string   `bun:"id,pk"`
	Name        string   `bun:"name,notnull"`
	HeroName    string   `bun:"hero_name,notnull"`
	Level       int      `bun:"level,notnull"`
	XP          int      `bun:"xp,notnull"`
	Gold        int      `bun:"gold,notnull"`
	MidtermGPA  float64  `bun:"midterm_gpa,notnull"`
	FinalGPA    *float64 `bun:"final_gpa"`
	BodySprite  string   `bun:"body_sprite,notnull"`
	LoginStreak int      `bun:"login_streak,notnull"`
	Position    int      `bun:"position,notnull"`
}

// QuestRow is the quests table.
type QuestRow struct {
	bun.BaseModel `bun:"table:quests,alias:q"`

	ID            string     `bun:"id,pk"`
	Title         string     `bun:"title,notnull"`
	Description   string     `bun:"description,notnull"`
	XP            int        `bun:"xp,notnull"`
	Gold          int        `bun:"gold,notnull"`
	Type          string     `bun:"type,notnull"`
	Frequency     string     `bun:"frequency,notnull"`
	UnlockAt      *time.Time `bun:"unlock_at"`
	CorrectAnswer *string    `bun:"correct_answer"`
	Position      int        `bun:"position,notnull"`
}

func studentRow(s domain.Student, position int) StudentRow {
	return StudentRow{
		ID:          s.ID,
		Name:        s.Name,
		HeroName:    s.HeroName,
		Level:       s.Level,
		XP:          s.XP,
		Gold:        s.Gold,
		MidtermGPA:  s.MidtermGPA,
		FinalGPA:    s.FinalGPA,
		BodySprite:  s.CurrentBodySprite,
		LoginStreak: s.LoginStreak,
		Position:    position,
	}
}

func questRow(q domain.Quest, position int) QuestRow {
	row := QuestRow{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		XP:          q.Reward.XP,
		Gold:        q.Reward.Gold,
		Type:        string(q.Type),
		Frequency:   string(q.Frequency),
		UnlockAt:    q.UnlockAt,
		Position:    position,
	}
	if row.Type == "" {
		row.Type = string(domain.QuestUpload)
	}
	if row.Frequency == "" {
		row.Frequency = string(domain.FrequencyOnce)
	}
	if q.CorrectAnswer != "" {
		answer := q.CorrectAnswer
		row.CorrectAnswer = &answer
	}
	return row
}
