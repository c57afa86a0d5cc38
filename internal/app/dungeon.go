package app

import "questboard/internal/domain"

// Dungeon lists every boss with the student's progress towards it.
func (g *GameService) Dungeon(studentID string) ([]domain.BossView, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	student, err := g.studentLocked(studentID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.BossView, 0, len(g.catalog.Bosses))
	for _, boss := range g.catalog.Bosses {
		progress := g.bossProgressLocked(student, boss)
		out = append(out, domain.BossView{
			Boss:     boss,
			Progress: progress,
			Locked:   progress < boss.Target,
			Defeated: student.HasDefeated(boss.ID),
		})
	}
	return out, nil
}

// FightBoss challenges an unlocked boss. Each boss can be beaten once.
func (g *GameService) FightBoss(studentID, bossID string) (domain.FightResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	student, err := g.studentLocked(studentID)
	if err != nil {
		return domain.FightResult{}, err
	}
	boss, ok := g.catalog.Boss(bossID)
	if !ok {
		return domain.FightResult{}, domain.ErrBossNotFound
	}
	if student.HasDefeated(boss.ID) {
		return domain.FightResult{}, domain.ErrAlreadyDefeated
	}
	if g.bossProgressLocked(student, boss) < boss.Target {
		return domain.FightResult{}, domain.ErrBossLocked
	}

	student.XP += boss.Reward.XP
	student.Gold += boss.Reward.Gold
	student.DefeatedBosses = append(student.DefeatedBosses, boss.ID)
	g.change(domain.ChangeBossDefeated, student.ID, "", g.now())
	return domain.FightResult{
		BossID:     boss.ID,
		RewardXP:   boss.Reward.XP,
		RewardGold: boss.Reward.Gold,
	}, nil
}

func (g *GameService) bossProgressLocked(student *domain.Student, boss domain.Boss) int {
	switch boss.Requirement {
	case domain.RequireStreak:
		return student.LoginStreak
	case domain.RequireQuests:
		return g.completedQuestsLocked(student.ID)
	default:
		return 0
	}
}

func (g *GameService) completedQuestsLocked(studentID string) int {
	n := 0
	for _, sub := range g.submissions {
		if sub.StudentID == studentID && sub.Status == domain.SubmissionApproved {
			n++
		}
	}
	return n
}
