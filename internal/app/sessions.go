package app

import (
	"context"
	"errors"
	"time"

	"questboard/internal/domain"
)

// Login opens a session for a role. Students without an id are logged in
// as the first hero on the roster. A student login also advances the
// daily login streak once the session is stored.
func (g *GameService) Login(ctx context.Context, role domain.Role, studentID string) (domain.Session, error) {
	now := g.now()
	session := domain.Session{Role: role, CreatedAt: now}

	switch role {
	case domain.RoleTeacher:
	case domain.RoleStudent:
		id, err := g.resolveLogin(studentID)
		if err != nil {
			return domain.Session{}, err
		}
		session.StudentID = id
	default:
		return domain.Session{}, domain.ErrInvalidRole
	}

	session.Token = g.newID()
	if err := g.sessions.Save(ctx, session); err != nil {
		return domain.Session{}, err
	}

	if session.Role == domain.RoleStudent {
		g.mu.Lock()
		if student, err := g.studentLocked(session.StudentID); err == nil && g.recordLoginLocked(student, now) {
			g.change(domain.ChangeLogin, student.ID, "", now)
		}
		g.mu.Unlock()
	}
	return session, nil
}

func (g *GameService) resolveLogin(studentID string) (string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if studentID == "" && len(g.roster) > 0 {
		studentID = g.roster[0]
	}
	student, err := g.studentLocked(studentID)
	if errors.Is(err, domain.ErrNotLoggedIn) {
		return "", domain.ErrStudentNotFound
	}
	if err != nil {
		return "", err
	}
	return student.ID, nil
}

// recordLoginLocked extends the streak on consecutive days and restarts it
// after a missed day. Repeat logins on the same day change nothing. A seeded
// streak without a login day is kept as it is. It reports whether the
// student changed.
func (g *GameService) recordLoginLocked(student *domain.Student, now time.Time) bool {
	today := g.day(now)
	yesterday := now.In(g.loc).AddDate(0, 0, -1).Format("2006-01-02")
	switch student.LastLoginDay {
	case today:
		return false
	case yesterday:
		student.LoginStreak++
	case "":
		if student.LoginStreak == 0 {
			student.LoginStreak = 1
		}
	default:
		student.LoginStreak = 1
	}
	student.LastLoginDay = today
	return true
}

// Logout drops a session. Unknown tokens are ignored.
func (g *GameService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return g.sessions.Delete(ctx, token)
}

// CurrentSession resolves a bearer token.
func (g *GameService) CurrentSession(ctx context.Context, token string) (domain.Session, error) {
	if token == "" {
		return domain.Session{}, domain.ErrNotLoggedIn
	}
	session, err := g.sessions.Get(ctx, token)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return domain.Session{}, domain.ErrNotLoggedIn
	}
	return session, err
}

// CurrentUser looks up the student behind a student session.
func (g *GameService) CurrentUser(ctx context.Context, token string) (domain.Student, error) {
	session, err := g.CurrentSession(ctx, token)
	if err != nil {
		return domain.Student{}, err
	}
	if session.Role != domain.RoleStudent {
		return domain.Student{}, domain.ErrStudentOnly
	}
	return g.Student(session.StudentID)
}
