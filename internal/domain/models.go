package domain

import "time"

// Role selects which console a session acts through.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// QuestType decides how a quest is completed.
type QuestType string

const (
	QuestUpload QuestType = "upload"
	QuestQuiz   QuestType = "quiz"
)

// Frequency decides whether a quest can be repeated.
type Frequency string

const (
	FrequencyOnce  Frequency = "once"
	FrequencyDaily Frequency = "daily"
)

// SubmissionStatus is the grading state of a submission.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
)

// QuestStatus is the per-student availability of a quest.
type QuestStatus string

const (
	QuestLocked    QuestStatus = "locked"
	QuestAvailable QuestStatus = "available"
	QuestPending   QuestStatus = "pending"
	QuestApproved  QuestStatus = "approved"
)

// Reward is paid out when a quest is approved or a boss is defeated.
type Reward struct {
	XP   int `json:"xp"`
	Gold int `json:"gold"`
}

// Student is a member of the class roster.
type Student struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	HeroName          string         `json:"heroName"`
	Level             int            `json:"level"`
	XP                int            `json:"xp"`
	Gold              int            `json:"gold"`
	MidtermGPA        float64        `json:"midtermGPA"`
	FinalGPA          *float64       `json:"finalGPA"`
	CurrentBodySprite string         `json:"currentBodySprite"`
	Inventory         []Item         `json:"inventory"`
	LoginStreak       int            `json:"loginStreak"`
	LastLoginDay      string         `json:"lastLoginDay,omitempty"`
	DefeatedBosses    []string       `json:"defeatedBosses"`
	Notifications     []Notification `json:"notifications"`
}

// Owns reports whether the item is in the student's inventory.
func (s Student) Owns(itemID string) bool {
	for _, item := range s.Inventory {
		if item.ID == itemID {
			return true
		}
	}
	return false
}

// HasDefeated reports whether the boss is in the student's defeat history.
func (s Student) HasDefeated(bossID string) bool {
	for _, id := range s.DefeatedBosses {
		if id == bossID {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with s.
func (s Student) Clone() Student {
	out := s
	if s.FinalGPA != nil {
		final := *s.FinalGPA
		out.FinalGPA = &final
	}
	out.Inventory = append([]Item(nil), s.Inventory...)
	out.DefeatedBosses = append([]string(nil), s.DefeatedBosses...)
	out.Notifications = append([]Notification(nil), s.Notifications...)
	return out
}

// Quest is a task a student can complete for a reward.
type Quest struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Reward      Reward     `json:"reward"`
	Type        QuestType  `json:"type"`
	Frequency   Frequency  `json:"frequency"`
	UnlockAt    *time.Time `json:"unlockAt,omitempty"`

	// CorrectAnswer is only set for quiz quests and never leaves the server.
	CorrectAnswer string `json:"-"`
}

// QuestDraft is the teacher input for a new quest.
type QuestDraft struct {
	Title         string     `json:"title" validate:"required,max=120"`
	Description   string     `json:"description" validate:"max=2000"`
	XP            int        `json:"xp" validate:"gte=0"`
	Gold          int        `json:"gold" validate:"gte=0"`
	Type          QuestType  `json:"type" validate:"omitempty,oneof=upload quiz"`
	Frequency     Frequency  `json:"frequency" validate:"omitempty,oneof=once daily"`
	UnlockAt      *time.Time `json:"unlockAt"`
	CorrectAnswer string     `json:"correctAnswer" validate:"required_if=Type quiz"`
}

// Submission is a student's attempt at a quest.
type Submission struct {
	ID          string           `json:"id"`
	QuestID     string           `json:"questId"`
	StudentID   string           `json:"studentId"`
	StudentName string           `json:"studentName"`
	ProofImage  string           `json:"proofImage,omitempty"`
	Status      SubmissionStatus `json:"status"`
	Day         string           `json:"day"`
	SubmittedAt time.Time        `json:"submittedAt"`
	ApprovedAt  *time.Time       `json:"approvedAt,omitempty"`
}

// SubmissionFilter narrows a submission listing. Zero fields match all.
type SubmissionFilter struct {
	Status    SubmissionStatus
	StudentID string
}

// Match reports whether sub passes the filter.
func (f SubmissionFilter) Match(sub Submission) bool {
	if f.Status != "" && sub.Status != f.Status {
		return false
	}
	if f.StudentID != "" && sub.StudentID != f.StudentID {
		return false
	}
	return true
}

// Notification is a message queued for a student until cleared.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session ties a bearer token to a role and, for students, a roster entry.
type Session struct {
	Token     string    `json:"token"`
	Role      Role      `json:"role"`
	StudentID string    `json:"studentId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Seed is the initial roster and quest log of a game.
type Seed struct {
	Students []Student
	Quests   []Quest
}

// QuestView is a quest as seen by one student.
type QuestView struct {
	Quest
	Status QuestStatus `json:"status"`
}

// BossView is a boss as seen by one student.
type BossView struct {
	Boss
	Progress int  `json:"progress"`
	Locked   bool `json:"locked"`
	Defeated bool `json:"defeated"`
}

// FightResult is the outcome of a won boss fight.
type FightResult struct {
	BossID     string `json:"bossId"`
	RewardXP   int    `json:"rewardXp"`
	RewardGold int    `json:"rewardGold"`
}

// Grades is a teacher's grade update. Nil fields are left unchanged;
// ClearFinal removes a recorded final grade.
type Grades struct {
	Midterm    *float64 `json:"midtermGPA" validate:"omitempty,gte=0"`
	Final      *float64 `json:"finalGPA" validate:"omitempty,gte=0,excluded_with=ClearFinal"`
	ClearFinal bool     `json:"clearFinal"`
}

// ArchiveEntry is one completed quest in a student's record.
type ArchiveEntry struct {
	SubmissionID string    `json:"submissionId"`
	QuestID      string    `json:"questId"`
	QuestTitle   string    `json:"questTitle"`
	Reward       Reward    `json:"reward"`
	CompletedAt  time.Time `json:"completedAt"`
}

// Archive is a student's academic record.
type Archive struct {
	StudentID      string         `json:"studentId"`
	HeroName       string         `json:"heroName"`
	Level          int            `json:"level"`
	XP             int            `json:"xp"`
	MidtermGPA     float64        `json:"midtermGPA"`
	FinalGPA       *float64       `json:"finalGPA"`
	ScholarScore   float64        `json:"scholarScore"`
	XPForNextLevel int            `json:"xpForNextLevel"`
	XPProgress     float64        `json:"xpProgress"`
	Completed      []ArchiveEntry `json:"completed"`
}

// ChangeKind names a mutation broadcast to subscribers.
type ChangeKind string

const (
	ChangeLogin         ChangeKind = "student.login"
	ChangeQuestCreated  ChangeKind = "quest.created"
	ChangeSubmitted     ChangeKind = "submission.created"
	ChangeApproved      ChangeKind = "submission.approved"
	ChangePurchase      ChangeKind = "item.purchased"
	ChangeOutfit        ChangeKind = "outfit.changed"
	ChangeGrades        ChangeKind = "grades.updated"
	ChangeNotifications ChangeKind = "notifications.cleared"
	ChangeBossDefeated  ChangeKind = "boss.defeated"
)

// Change is one entry of the state change feed.
type Change struct {
	Kind      ChangeKind `json:"kind"`
	StudentID string     `json:"studentId,omitempty"`
	QuestID   string     `json:"questId,omitempty"`
	At        time.Time  `json:"at"`
}
