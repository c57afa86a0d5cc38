package domain

import "errors"

// Rejected actions surface these messages to players unchanged.
var (
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrTeacherOnly        = errors.New("teachers only")
	ErrStudentOnly        = errors.New("students only")
	ErrInvalidRole        = errors.New("invalid role")
	ErrStudentNotFound    = errors.New("student not found")
	ErrQuestNotFound      = errors.New("quest not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrItemNotFound       = errors.New("item not found")
	ErrBossNotFound       = errors.New("boss not found")
	ErrInvalidQuest       = errors.New("invalid quest")
	ErrQuestLocked        = errors.New("quest is locked")
	ErrAlreadySubmitted   = errors.New("quest already submitted")
	ErrAlreadyApproved    = errors.New("submission already approved")
	ErrNotQuiz            = errors.New("quest is not a quiz")
	ErrQuizRequiresAnswer = errors.New("quest requires a quiz answer")
	ErrIncorrectAnswer    = errors.New("incorrect answer")
	ErrInsufficientGold   = errors.New("not enough gold")
	ErrAlreadyOwned       = errors.New("item already owned")
	ErrNotOwned           = errors.New("item not owned")
	ErrBossLocked         = errors.New("boss is locked")
	ErrAlreadyDefeated    = errors.New("already defeated")
	ErrUnknownLeaderboard = errors.New("unknown leaderboard")
	ErrInvalidGrades      = errors.New("invalid grades")
	ErrSessionNotFound    = errors.New("session not found")
)
