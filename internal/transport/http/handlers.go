package http

import (
	"fmt"
	"net/http"

	"questboard/internal/domain"
)

type loginRequest struct {
	Role      domain.Role `json:"role" validate:"required,oneof=student teacher"`
	StudentID string      `json:"studentId"`
}

type submitRequest struct {
	ProofImage string `json:"proofImage" validate:"max=2048"`
}

type attemptRequest struct {
	Answer string `json:"answer" validate:"max=256"`
}

type meResponse struct {
	Session domain.Session  `json:"session"`
	Student *domain.Student `json:"student,omitempty"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}
	session, err := h.service.Login(r.Context(), req.Role, req.StudentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "", session)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), bearerToken(r)); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "logged out", nil)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.CurrentSession(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, err)
		return
	}
	out := meResponse{Session: session}
	if session.Role == domain.RoleStudent {
		student, err := h.service.Student(session.StudentID)
		if err != nil {
			writeError(w, err)
			return
		}
		out.Student = &student
	}
	writeOK(w, "", out)
}

func (h *Handler) clearNotifications(w http.ResponseWriter, r *http.Request, session domain.Session) {
	if err := h.service.ClearNotifications(session.StudentID); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "notifications cleared", nil)
}

func (h *Handler) listStudents(w http.ResponseWriter, r *http.Request) {
	writeOK(w, "", h.service.Students())
}

func (h *Handler) updateGrades(w http.ResponseWriter, r *http.Request, _ domain.Session) {
	var grades domain.Grades
	if !h.decode(w, r, &grades) {
		return
	}
	student, err := h.service.UpdateGrades(r.PathValue("id"), grades)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "grades updated", student)
}

func (h *Handler) listQuests(w http.ResponseWriter, r *http.Request) {
	studentID := ""
	if session, ok := h.optionalSession(r); ok && session.Role == domain.RoleStudent {
		studentID = session.StudentID
	}
	board, err := h.service.QuestBoard(studentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "", board)
}

func (h *Handler) createQuest(w http.ResponseWriter, r *http.Request, _ domain.Session) {
	var draft domain.QuestDraft
	if !h.decode(w, r, &draft) {
		return
	}
	quest, err := h.service.CreateQuest(draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, response{Success: true, Message: "quest published", Data: quest})
}

func (h *Handler) submitQuest(w http.ResponseWriter, r *http.Request, session domain.Session) {
	var req submitRequest
	if !h.decode(w, r, &req) {
		return
	}
	sub, err := h.service.SubmitQuest(session.StudentID, r.PathValue("id"), req.ProofImage)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, response{Success: true, Message: "submitted for review", Data: sub})
}

func (h *Handler) attemptQuiz(w http.ResponseWriter, r *http.Request, session domain.Session) {
	var req attemptRequest
	if !h.decode(w, r, &req) {
		return
	}
	questID := r.PathValue("id")
	sub, err := h.service.AttemptQuiz(session.StudentID, questID, req.Answer)
	if err != nil {
		writeError(w, err)
		return
	}
	quest, err := h.service.Quest(questID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, fmt.Sprintf("Correct! +%d XP, +%d Gold", quest.Reward.XP, quest.Reward.Gold), sub)
}

func (h *Handler) listSubmissions(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.CurrentSession(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, err)
		return
	}
	filter := domain.SubmissionFilter{
		Status:    domain.SubmissionStatus(r.URL.Query().Get("status")),
		StudentID: r.URL.Query().Get("studentId"),
	}
	if session.Role == domain.RoleStudent {
		filter.StudentID = session.StudentID
	}
	writeOK(w, "", h.service.Submissions(filter))
}

func (h *Handler) approveSubmission(w http.ResponseWriter, r *http.Request, _ domain.Session) {
	sub, err := h.service.ApproveSubmission(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "submission approved", sub)
}

func (h *Handler) listShop(w http.ResponseWriter, r *http.Request) {
	writeOK(w, "", h.service.Catalog().Items)
}

func (h *Handler) buyItem(w http.ResponseWriter, r *http.Request, session domain.Session) {
	student, err := h.service.BuyItem(session.StudentID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "Purchase successful!", student)
}

func (h *Handler) equipOutfit(w http.ResponseWriter, r *http.Request, session domain.Session) {
	student, err := h.service.EquipOutfit(session.StudentID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "", student)
}

func (h *Handler) unequipOutfit(w http.ResponseWriter, r *http.Request, session domain.Session) {
	student, err := h.service.UnequipOutfit(session.StudentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "", student)
}

func (h *Handler) dungeon(w http.ResponseWriter, r *http.Request, session domain.Session) {
	bosses, err := h.service.Dungeon(session.StudentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "", bosses)
}

func (h *Handler) fightBoss(w http.ResponseWriter, r *http.Request, session domain.Session) {
	result, err := h.service.FightBoss(session.StudentID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, fmt.Sprintf("Victory! You earned %d Gold and %d XP", result.RewardGold, result.RewardXP), result)
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	category, err := domain.ParseCategory(r.PathValue("category"))
	if err != nil {
		writeError(w, err)
		return
	}
	board, err := h.service.Leaderboard(category)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "", board)
}

func (h *Handler) archives(w http.ResponseWriter, r *http.Request, session domain.Session) {
	archive, err := h.service.Archives(session.StudentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "", archive)
}
