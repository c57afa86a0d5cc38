package app

import (
	"sort"

	"questboard/internal/domain"
)

// Students lists the roster in seed order.
func (g *GameService) Students() []domain.Student {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]domain.Student, 0, len(g.roster))
	for _, id := range g.roster {
		out = append(out, snapshot(g.students[id]))
	}
	return out
}

// Student looks up one roster entry.
func (g *GameService) Student(studentID string) (domain.Student, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	student, err := g.studentLocked(studentID)
	if err != nil {
		return domain.Student{}, err
	}
	return snapshot(student), nil
}

// UpdateGrades records midterm and/or final grades for a student, or
// clears a final grade entered by mistake.
func (g *GameService) UpdateGrades(studentID string, grades domain.Grades) (domain.Student, error) {
	if err := g.validate.Struct(grades); err != nil {
		return domain.Student{}, domain.ErrInvalidGrades
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	student, err := g.studentLocked(studentID)
	if err != nil {
		return domain.Student{}, err
	}
	if grades.Midterm == nil && grades.Final == nil && !grades.ClearFinal {
		return snapshot(student), nil
	}
	if grades.Midterm != nil {
		student.MidtermGPA = *grades.Midterm
	}
	if grades.Final != nil {
		final := *grades.Final
		student.FinalGPA = &final
	}
	if grades.ClearFinal {
		student.FinalGPA = nil
	}
	now := g.now()
	g.notifyLocked(student, "Your grades have been updated in the Archives", now)
	g.change(domain.ChangeGrades, student.ID, "", now)
	return snapshot(student), nil
}

// ClearNotifications empties the student's notification queue.
func (g *GameService) ClearNotifications(studentID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	student, err := g.studentLocked(studentID)
	if err != nil {
		return err
	}
	student.Notifications = []domain.Notification{}
	g.change(domain.ChangeNotifications, student.ID, "", g.now())
	return nil
}

// Leaderboard ranks the roster for a category, best first. Ties keep
// roster order. Scores are computed on every call.
func (g *GameService) Leaderboard(category domain.Category) (domain.Leaderboard, error) {
	if _, err := domain.ParseCategory(string(category)); err != nil {
		return domain.Leaderboard{}, err
	}

	g.mu.RLock()
	entries := make([]domain.LeaderboardEntry, 0, len(g.roster))
	for _, id := range g.roster {
		s := g.students[id]
		entries = append(entries, domain.LeaderboardEntry{
			StudentID:         s.ID,
			HeroName:          s.HeroName,
			Name:              s.Name,
			CurrentBodySprite: s.CurrentBodySprite,
			Score:             category.Score(*s),
		})
	}
	g.mu.RUnlock()

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return domain.Leaderboard{Category: category, Entries: entries}, nil
}

// Archives collects a student's grades, level progress and completed quests.
func (g *GameService) Archives(studentID string) (domain.Archive, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	student, err := g.studentLocked(studentID)
	if err != nil {
		return domain.Archive{}, err
	}
	s := snapshot(student)
	archive := domain.Archive{
		StudentID:      s.ID,
		HeroName:       s.HeroName,
		Level:          s.Level,
		XP:             s.XP,
		MidtermGPA:     s.MidtermGPA,
		FinalGPA:       s.FinalGPA,
		ScholarScore:   domain.ScholarScore(s),
		XPForNextLevel: domain.XPForNextLevel(s.Level),
		XPProgress:     domain.XPProgress(s),
		Completed:      []domain.ArchiveEntry{},
	}
	for _, sub := range g.submissions {
		if sub.StudentID != s.ID || sub.Status != domain.SubmissionApproved {
			continue
		}
		entry := domain.ArchiveEntry{
			SubmissionID: sub.ID,
			QuestID:      sub.QuestID,
			CompletedAt:  sub.SubmittedAt,
		}
		if sub.ApprovedAt != nil {
			entry.CompletedAt = *sub.ApprovedAt
		}
		if quest, ok := g.questIndex[sub.QuestID]; ok {
			entry.QuestTitle = quest.Title
			entry.Reward = quest.Reward
		}
		archive.Completed = append(archive.Completed, entry)
	}
	return archive, nil
}
