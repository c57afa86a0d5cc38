package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"questboard/internal/app"
	"questboard/internal/domain"
)

// Handler exposes the game over JSON HTTP.
type Handler struct {
	service  *app.GameService
	validate *validator.Validate
}

func NewHandler(service *app.GameService) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

// Routes registers every endpoint, including the websocket feed.
func (h *Handler) Routes() http.Handler {
	ws := NewWSHandler(h.service)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /ws", ws.ServeWS)

	mux.HandleFunc("POST /login", h.login)
	mux.HandleFunc("POST /logout", h.logout)
	mux.HandleFunc("GET /me", h.me)
	mux.HandleFunc("DELETE /me/notifications", h.asStudent(h.clearNotifications))

	mux.HandleFunc("GET /students", h.listStudents)
	mux.HandleFunc("PUT /students/{id}/grades", h.asTeacher(h.updateGrades))

	mux.HandleFunc("GET /quests", h.listQuests)
	mux.HandleFunc("POST /quests", h.asTeacher(h.createQuest))
	mux.HandleFunc("POST /quests/{id}/submissions", h.asStudent(h.submitQuest))
	mux.HandleFunc("POST /quests/{id}/attempts", h.asStudent(h.attemptQuiz))

	mux.HandleFunc("GET /submissions", h.listSubmissions)
	mux.HandleFunc("POST /submissions/{id}/approve", h.asTeacher(h.approveSubmission))

	mux.HandleFunc("GET /shop", h.listShop)
	mux.HandleFunc("POST /shop/{id}/buy", h.asStudent(h.buyItem))
	mux.HandleFunc("POST /outfits/{id}/equip", h.asStudent(h.equipOutfit))
	mux.HandleFunc("POST /outfits/unequip", h.asStudent(h.unequipOutfit))

	mux.HandleFunc("GET /bosses", h.asStudent(h.dungeon))
	mux.HandleFunc("POST /bosses/{id}/fight", h.asStudent(h.fightBoss))

	mux.HandleFunc("GET /leaderboard/{category}", h.leaderboard)
	mux.HandleFunc("GET /archives", h.asStudent(h.archives))
	return mux
}

// response is the envelope for every JSON reply. Rejected actions carry
// success=false and a message meant for the player.
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, session domain.Session)

func (h *Handler) asStudent(next sessionHandler) http.HandlerFunc {
	return h.withRole(domain.RoleStudent, domain.ErrStudentOnly, next)
}

func (h *Handler) asTeacher(next sessionHandler) http.HandlerFunc {
	return h.withRole(domain.RoleTeacher, domain.ErrTeacherOnly, next)
}

func (h *Handler) withRole(role domain.Role, denied error, next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := h.service.CurrentSession(r.Context(), bearerToken(r))
		if err != nil {
			writeError(w, err)
			return
		}
		if session.Role != role {
			writeError(w, denied)
			return
		}
		next(w, r, session)
	}
}

// optionalSession resolves the caller if a token was sent.
func (h *Handler) optionalSession(r *http.Request) (domain.Session, bool) {
	token := bearerToken(r)
	if token == "" {
		return domain.Session{}, false
	}
	session, err := h.service.CurrentSession(r.Context(), token)
	if err != nil {
		return domain.Session{}, false
	}
	return session, true
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			writeJSON(w, http.StatusBadRequest, response{Message: "invalid request body"})
			return false
		}
	}
	if err := h.validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, response{Message: err.Error()})
		return false
	}
	return true
}

func writeOK(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, response{Success: true, Message: message, Data: data})
}

func writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("request failed: %v", err)
		message = "internal error"
	}
	writeJSON(w, status, response{Message: message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotLoggedIn):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrTeacherOnly), errors.Is(err, domain.ErrStudentOnly):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrStudentNotFound),
		errors.Is(err, domain.ErrQuestNotFound),
		errors.Is(err, domain.ErrSubmissionNotFound),
		errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrBossNotFound),
		errors.Is(err, domain.ErrUnknownLeaderboard):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientGold),
		errors.Is(err, domain.ErrAlreadyOwned),
		errors.Is(err, domain.ErrAlreadySubmitted),
		errors.Is(err, domain.ErrAlreadyApproved),
		errors.Is(err, domain.ErrAlreadyDefeated),
		errors.Is(err, domain.ErrBossLocked),
		errors.Is(err, domain.ErrQuestLocked):
		return http.StatusConflict
	case errors.Is(err, domain.ErrIncorrectAnswer),
		errors.Is(err, domain.ErrInvalidQuest),
		errors.Is(err, domain.ErrInvalidGrades),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrNotQuiz),
		errors.Is(err, domain.ErrQuizRequiresAnswer),
		errors.Is(err, domain.ErrNotOwned):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
