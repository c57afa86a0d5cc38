package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"questboard/internal/app"
	"questboard/internal/domain"
	"questboard/internal/infra/memory"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestHandler(t *testing.T, seed *domain.Seed) *Handler {
	t.Helper()
	s := memory.DemoSeed()
	if seed != nil {
		s = *seed
	}
	service := app.NewGameService(s, domain.DefaultCatalog("https://assets.test/"), memory.NewSessionStore())
	return NewHandler(service)
}

func call(t *testing.T, h http.Handler, method, path, token, body string) (int, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec.Code, out
}

func login(t *testing.T, h http.Handler, role, studentID string) string {
	t.Helper()
	code, out := call(t, h, http.MethodPost, "/login", "", `{"role":"`+role+`","studentId":"`+studentID+`"}`)
	require.Equal(t, http.StatusOK, code, out.Message)
	var session domain.Session
	require.NoError(t, json.Unmarshal(out.Data, &session))
	return session.Token
}

func TestLoginAndMe(t *testing.T) {
	routes := newTestHandler(t, nil).Routes()
	token := login(t, routes, "student", "1")

	code, out := call(t, routes, http.MethodGet, "/me", token, "")
	require.Equal(t, http.StatusOK, code)
	var me meResponse
	require.NoError(t, json.Unmarshal(out.Data, &me))
	require.NotNil(t, me.Student)
	assert.Equal(t, "Sir Lancelot", me.Student.HeroName)
	assert.Equal(t, "https://assets.test/base.body.png", me.Student.CurrentBodySprite)

	code, _ = call(t, routes, http.MethodGet, "/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = call(t, routes, http.MethodPost, "/logout", token, "")
	assert.Equal(t, http.StatusOK, code)
	code, _ = call(t, routes, http.MethodGet, "/me", token, "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestLoginValidation(t *testing.T) {
	routes := newTestHandler(t, nil).Routes()

	code, out := call(t, routes, http.MethodPost, "/login", "", `{"role":`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, out.Success)

	code, _ = call(t, routes, http.MethodPost, "/login", "", `{"role":"wizard"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = call(t, routes, http.MethodPost, "/login", "", `{"role":"student","studentId":"99"}`)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRoleGuards(t *testing.T) {
	routes := newTestHandler(t, nil).Routes()
	student := login(t, routes, "student", "1")
	teacher := login(t, routes, "teacher", "")

	quest := `{"title":"Essay","xp":30,"gold":10}`
	code, _ := call(t, routes, http.MethodPost, "/quests", "", quest)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, out := call(t, routes, http.MethodPost, "/quests", student, quest)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, domain.ErrTeacherOnly.Error(), out.Message)

	code, _ = call(t, routes, http.MethodPost, "/shop/101/buy", teacher, "")
	assert.Equal(t, http.StatusForbidden, code)

	code, out = call(t, routes, http.MethodPost, "/quests", teacher, quest)
	assert.Equal(t, http.StatusCreated, code)
	assert.True(t, out.Success)

	code, _ = call(t, routes, http.MethodPost, "/quests", teacher, `{"title":"","xp":-1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestSubmitAndApproveFlow(t *testing.T) {
	routes := newTestHandler(t, nil).Routes()
	student := login(t, routes, "student", "1")
	teacher := login(t, routes, "teacher", "")

	code, out := call(t, routes, http.MethodPost, "/quests/101/submissions", student, `{"proofImage":"sheet.png"}`)
	require.Equal(t, http.StatusCreated, code, out.Message)
	var sub domain.Submission
	require.NoError(t, json.Unmarshal(out.Data, &sub))
	assert.Equal(t, domain.SubmissionPending, sub.Status)

	code, _ = call(t, routes, http.MethodPost, "/quests/101/submissions", student, "")
	assert.Equal(t, http.StatusConflict, code)

	code, out = call(t, routes, http.MethodGet, "/submissions?status=pending", teacher, "")
	require.Equal(t, http.StatusOK, code)
	var pending []domain.Submission
	require.NoError(t, json.Unmarshal(out.Data, &pending))
	require.Len(t, pending, 1)

	code, _ = call(t, routes, http.MethodPost, "/submissions/"+sub.ID+"/approve", teacher, "")
	require.Equal(t, http.StatusOK, code)
	code, out = call(t, routes, http.MethodPost, "/submissions/"+sub.ID+"/approve", teacher, "")
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, out.Success)

	_, out = call(t, routes, http.MethodGet, "/me", student, "")
	var me meResponse
	require.NoError(t, json.Unmarshal(out.Data, &me))
	assert.Equal(t, 1300, me.Student.XP)
	assert.Equal(t, 420, me.Student.Gold)
	assert.Len(t, me.Student.Notifications, 1)
}

func TestBuyWithoutGoldIsRejected(t *testing.T) {
	seed := domain.Seed{Students: []domain.Student{{ID: "p", HeroName: "Pauper", Gold: 5}}}
	routes := newTestHandler(t, &seed).Routes()
	token := login(t, routes, "student", "p")

	code, out := call(t, routes, http.MethodPost, "/shop/101/buy", token, "")
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, out.Success)
	assert.Equal(t, "not enough gold", out.Message)

	code, _ = call(t, routes, http.MethodPost, "/shop/999/buy", token, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAttemptQuizMessages(t *testing.T) {
	routes := newTestHandler(t, nil).Routes()
	token := login(t, routes, "student", "2")

	code, out := call(t, routes, http.MethodPost, "/quests/103/attempts", token, `{"answer":"a door"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "incorrect answer", out.Message)

	code, out = call(t, routes, http.MethodPost, "/quests/103/attempts", token, `{"answer":"Piano"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Correct! +20 XP, +5 Gold", out.Message)

	code, out = call(t, routes, http.MethodGet, "/quests", token, "")
	require.Equal(t, http.StatusOK, code)
	var board []domain.QuestView
	require.NoError(t, json.Unmarshal(out.Data, &board))
	require.Len(t, board, 3)
	assert.Equal(t, domain.QuestApproved, board[2].Status)
	assert.NotContains(t, string(out.Data), "piano")
}

func TestLeaderboardRoute(t *testing.T) {
	routes := newTestHandler(t, nil).Routes()

	code, out := call(t, routes, http.MethodGet, "/leaderboard/grinder", "", "")
	require.Equal(t, http.StatusOK, code)
	var board domain.Leaderboard
	require.NoError(t, json.Unmarshal(out.Data, &board))
	require.Len(t, board.Entries, 5)
	assert.Equal(t, "Dark Knight", board.Entries[0].HeroName)

	code, _ = call(t, routes, http.MethodGet, "/leaderboard/fastest", "", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestFightBossRoute(t *testing.T) {
	routes := newTestHandler(t, nil).Routes()
	token := login(t, routes, "student", "5")

	code, out := call(t, routes, http.MethodPost, "/bosses/b3/fight", token, "")
	require.Equal(t, http.StatusOK, code, out.Message)
	assert.Equal(t, "Victory! You earned 250 Gold and 500 XP", out.Message)

	code, _ = call(t, routes, http.MethodPost, "/bosses/b3/fight", token, "")
	assert.Equal(t, http.StatusConflict, code)
}
