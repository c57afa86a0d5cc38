package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"questboard/internal/app"
	"questboard/internal/domain"
	"questboard/internal/infra/memory"
)

func TestLoginStudentAndTeacher(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	session, err := service.Login(ctx, domain.RoleStudent, "2")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "2", session.StudentID)

	me, err := service.CurrentUser(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, "Lady Arwen", me.HeroName)

	teacher, err := service.Login(ctx, domain.RoleTeacher, "")
	require.NoError(t, err)
	assert.Empty(t, teacher.StudentID)
	_, err = service.CurrentUser(ctx, teacher.Token)
	assert.ErrorIs(t, err, domain.ErrStudentOnly)

	_, err = service.Login(ctx, "wizard", "")
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	_, err = service.Login(ctx, domain.RoleStudent, "99")
	assert.ErrorIs(t, err, domain.ErrStudentNotFound)
}

func TestLoginDefaultsToFirstStudent(t *testing.T) {
	service, _ := newTestService(t)
	session, err := service.Login(context.Background(), domain.RoleStudent, "")
	require.NoError(t, err)
	assert.Equal(t, "1", session.StudentID)
}

func TestCurrentUserIsALiveLookup(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	session, err := service.Login(ctx, domain.RoleStudent, "1")
	require.NoError(t, err)

	sub, err := service.SubmitQuest(session.StudentID, "102", "poster.png")
	require.NoError(t, err)
	_, err = service.ApproveSubmission(sub.ID)
	require.NoError(t, err)

	me, err := service.CurrentUser(ctx, session.Token)
	require.NoError(t, err)
	roster, err := service.Student("1")
	require.NoError(t, err)
	assert.Equal(t, roster.XP, me.XP)
	assert.Equal(t, roster.Gold, me.Gold)
	assert.Equal(t, 1350, me.XP)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	session, err := service.Login(ctx, domain.RoleTeacher, "")
	require.NoError(t, err)
	require.NoError(t, service.Logout(ctx, session.Token))

	_, err = service.CurrentSession(ctx, session.Token)
	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)
	_, err = service.CurrentSession(ctx, "")
	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)
}

func TestLoginStreak(t *testing.T) {
	ctx := context.Background()
	service, clock := newTestService(t)

	streak := func() int {
		s, err := service.Student("2")
		require.NoError(t, err)
		return s.LoginStreak
	}

	_, err := service.Login(ctx, domain.RoleStudent, "2")
	require.NoError(t, err)
	assert.Equal(t, 1, streak())

	_, err = service.Login(ctx, domain.RoleStudent, "2")
	require.NoError(t, err)
	assert.Equal(t, 1, streak(), "same day login keeps the streak")

	clock.Advance(24 * time.Hour)
	_, err = service.Login(ctx, domain.RoleStudent, "2")
	require.NoError(t, err)
	assert.Equal(t, 2, streak())

	clock.Advance(48 * time.Hour)
	_, err = service.Login(ctx, domain.RoleStudent, "2")
	require.NoError(t, err)
	assert.Equal(t, 1, streak(), "a missed day restarts the streak")
}

func TestSeededStreakSurvivesFirstLogin(t *testing.T) {
	ctx := context.Background()
	service, clock := newTestService(t)

	_, err := service.Login(ctx, domain.RoleStudent, "5")
	require.NoError(t, err)
	s, _ := service.Student("5")
	assert.Equal(t, 7, s.LoginStreak)

	clock.Advance(24 * time.Hour)
	_, err = service.Login(ctx, domain.RoleStudent, "5")
	require.NoError(t, err)
	s, _ = service.Student("5")
	assert.Equal(t, 8, s.LoginStreak)
}

type brokenSessions struct{ err error }

func (s brokenSessions) Save(context.Context, domain.Session) error { return s.err }
func (s brokenSessions) Get(context.Context, string) (domain.Session, error) {
	return domain.Session{}, domain.ErrSessionNotFound
}
func (s brokenSessions) Delete(context.Context, string) error { return s.err }

func TestFailedLoginLeavesStudentUntouched(t *testing.T) {
	storeDown := errors.New("redis down")
	service := app.NewGameService(
		memory.DemoSeed(),
		domain.DefaultCatalog(""),
		brokenSessions{err: storeDown},
		app.WithClock(func() time.Time { return time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC) }),
		app.WithLocation(time.UTC),
	)
	ch, cancel := service.Subscribe()
	defer cancel()

	_, err := service.Login(context.Background(), domain.RoleStudent, "2")
	assert.ErrorIs(t, err, storeDown)

	s, err := service.Student("2")
	require.NoError(t, err)
	assert.Equal(t, 0, s.LoginStreak)
	assert.Empty(t, s.LastLoginDay)
	assert.Len(t, ch, 0)
}

func TestSameDayLoginBroadcastsOnce(t *testing.T) {
	ctx := context.Background()
	service, clock := newTestService(t)
	ch, cancel := service.Subscribe()
	defer cancel()

	for i := 0; i < 3; i++ {
		_, err := service.Login(ctx, domain.RoleStudent, "2")
		require.NoError(t, err)
	}
	assert.Len(t, ch, 1)

	clock.Advance(24 * time.Hour)
	_, err := service.Login(ctx, domain.RoleStudent, "2")
	require.NoError(t, err)
	assert.Len(t, ch, 2)
}
