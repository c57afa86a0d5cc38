package app

import (
	"fmt"
	"strings"
	"time"

	"questboard/internal/domain"
)

// CreateQuest publishes a new quest to the board.
func (g *GameService) CreateQuest(draft domain.QuestDraft) (domain.Quest, error) {
	draft.Title = strings.TrimSpace(draft.Title)
	draft.CorrectAnswer = strings.TrimSpace(draft.CorrectAnswer)
	if err := g.validate.Struct(draft); err != nil {
		return domain.Quest{}, fmt.Errorf("%w: %v", domain.ErrInvalidQuest, err)
	}

	quest := domain.Quest{
		ID:            g.newID(),
		Title:         draft.Title,
		Description:   draft.Description,
		Reward:        domain.Reward{XP: draft.XP, Gold: draft.Gold},
		Type:          draft.Type,
		Frequency:     draft.Frequency,
		UnlockAt:      draft.UnlockAt,
		CorrectAnswer: draft.CorrectAnswer,
	}
	if quest.Type == "" {
		quest.Type = domain.QuestUpload
	}
	if quest.Frequency == "" {
		quest.Frequency = domain.FrequencyOnce
	}
	if quest.Type != domain.QuestQuiz {
		quest.CorrectAnswer = ""
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.quests = append(g.quests, &quest)
	g.questIndex[quest.ID] = &quest
	g.change(domain.ChangeQuestCreated, "", quest.ID, g.now())
	return quest, nil
}

// Quests lists the quest log in publication order.
func (g *GameService) Quests() []domain.Quest {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]domain.Quest, 0, len(g.quests))
	for _, q := range g.quests {
		out = append(out, *q)
	}
	return out
}

// Quest looks up one quest.
func (g *GameService) Quest(questID string) (domain.Quest, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	quest, ok := g.questIndex[questID]
	if !ok {
		return domain.Quest{}, domain.ErrQuestNotFound
	}
	return *quest, nil
}

// QuestStatus is the availability of a quest for one student right now.
func (g *GameService) QuestStatus(studentID, questID string) (domain.QuestStatus, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if _, err := g.studentLocked(studentID); err != nil {
		return "", err
	}
	quest, ok := g.questIndex[questID]
	if !ok {
		return "", domain.ErrQuestNotFound
	}
	return g.questStatusLocked(studentID, quest, g.now()), nil
}

// QuestBoard lists every quest with its status for the student. Without a
// student every unlocked quest shows as available.
func (g *GameService) QuestBoard(studentID string) ([]domain.QuestView, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if studentID != "" {
		if _, err := g.studentLocked(studentID); err != nil {
			return nil, err
		}
	}
	now := g.now()
	out := make([]domain.QuestView, 0, len(g.quests))
	for _, q := range g.quests {
		out = append(out, domain.QuestView{Quest: *q, Status: g.questStatusLocked(studentID, q, now)})
	}
	return out, nil
}

// questStatusLocked walks locked -> available -> pending -> approved.
// Daily quests only look at today's submissions, so yesterday's approval
// leaves them available again.
func (g *GameService) questStatusLocked(studentID string, quest *domain.Quest, now time.Time) domain.QuestStatus {
	if quest.UnlockAt != nil && now.Before(*quest.UnlockAt) {
		return domain.QuestLocked
	}
	if studentID == "" {
		return domain.QuestAvailable
	}
	today := g.day(now)
	status := domain.QuestAvailable
	for _, sub := range g.submissions {
		if sub.StudentID != studentID || sub.QuestID != quest.ID {
			continue
		}
		if quest.Frequency == domain.FrequencyDaily && sub.Day != today {
			continue
		}
		if sub.Status == domain.SubmissionApproved {
			return domain.QuestApproved
		}
		status = domain.QuestPending
	}
	return status
}

// SubmitQuest files proof for an upload quest. The submission waits for a
// teacher to approve it.
func (g *GameService) SubmitQuest(studentID, questID, proofImage string) (domain.Submission, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	student, quest, err := g.attemptableLocked(studentID, questID)
	if err != nil {
		return domain.Submission{}, err
	}
	if quest.Type == domain.QuestQuiz {
		return domain.Submission{}, domain.ErrQuizRequiresAnswer
	}

	now := g.now()
	sub := &domain.Submission{
		ID:          g.newID(),
		QuestID:     quest.ID,
		StudentID:   student.ID,
		StudentName: student.HeroName,
		ProofImage:  proofImage,
		Status:      domain.SubmissionPending,
		Day:         g.day(now),
		SubmittedAt: now,
	}
	g.submissions = append(g.submissions, sub)
	g.subIndex[sub.ID] = sub
	g.change(domain.ChangeSubmitted, student.ID, quest.ID, now)
	return *sub, nil
}

// AttemptQuiz checks an answer to a quiz quest. A correct answer is
// approved on the spot and paid out; a wrong one leaves no trace.
func (g *GameService) AttemptQuiz(studentID, questID, answer string) (domain.Submission, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	student, quest, err := g.attemptableLocked(studentID, questID)
	if err != nil {
		return domain.Submission{}, err
	}
	if quest.Type != domain.QuestQuiz {
		return domain.Submission{}, domain.ErrNotQuiz
	}
	if !answerMatches(quest.CorrectAnswer, answer) {
		return domain.Submission{}, domain.ErrIncorrectAnswer
	}

	now := g.now()
	sub := &domain.Submission{
		ID:          g.newID(),
		QuestID:     quest.ID,
		StudentID:   student.ID,
		StudentName: student.HeroName,
		Status:      domain.SubmissionApproved,
		Day:         g.day(now),
		SubmittedAt: now,
		ApprovedAt:  &now,
	}
	g.submissions = append(g.submissions, sub)
	g.subIndex[sub.ID] = sub
	student.XP += quest.Reward.XP
	student.Gold += quest.Reward.Gold
	g.change(domain.ChangeApproved, student.ID, quest.ID, now)
	return *sub, nil
}

func (g *GameService) attemptableLocked(studentID, questID string) (*domain.Student, *domain.Quest, error) {
	student, err := g.studentLocked(studentID)
	if err != nil {
		return nil, nil, err
	}
	quest, ok := g.questIndex[questID]
	if !ok {
		return nil, nil, domain.ErrQuestNotFound
	}
	switch g.questStatusLocked(student.ID, quest, g.now()) {
	case domain.QuestLocked:
		return nil, nil, domain.ErrQuestLocked
	case domain.QuestPending, domain.QuestApproved:
		return nil, nil, domain.ErrAlreadySubmitted
	}
	return student, quest, nil
}

func answerMatches(want, got string) bool {
	want = strings.TrimSpace(want)
	return want != "" && strings.EqualFold(want, strings.TrimSpace(got))
}

// ApproveSubmission grades a pending submission and pays the quest reward.
// A submission is paid at most once.
func (g *GameService) ApproveSubmission(submissionID string) (domain.Submission, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	sub, ok := g.subIndex[submissionID]
	if !ok {
		return domain.Submission{}, domain.ErrSubmissionNotFound
	}
	if sub.Status == domain.SubmissionApproved {
		return domain.Submission{}, domain.ErrAlreadyApproved
	}
	quest, ok := g.questIndex[sub.QuestID]
	if !ok {
		return domain.Submission{}, domain.ErrQuestNotFound
	}
	student, err := g.studentLocked(sub.StudentID)
	if err != nil {
		return domain.Submission{}, err
	}

	now := g.now()
	sub.Status = domain.SubmissionApproved
	sub.ApprovedAt = &now
	student.XP += quest.Reward.XP
	student.Gold += quest.Reward.Gold
	g.notifyLocked(student, fmt.Sprintf("Quest approved: %s (+%d XP, +%d Gold)", quest.Title, quest.Reward.XP, quest.Reward.Gold), now)
	g.change(domain.ChangeApproved, student.ID, quest.ID, now)
	return *sub, nil
}

// Submissions lists submissions in arrival order.
func (g *GameService) Submissions(filter domain.SubmissionFilter) []domain.Submission {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]domain.Submission, 0, len(g.submissions))
	for _, sub := range g.submissions {
		if filter.Match(*sub) {
			out = append(out, *sub)
		}
	}
	return out
}
