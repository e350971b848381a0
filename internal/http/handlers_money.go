package http

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"cartera/internal/core"
)

type debtResponse struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Kind      string          `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note,omitempty"`
	Settled   bool            `json:"settled"`
	CreatedAt time.Time       `json:"created_at"`
}

func toDebtResponse(d core.Debt) debtResponse {
	return debtResponse{
		ID:        d.ID,
		Name:      d.Name,
		Kind:      string(d.Kind),
		Amount:    d.Amount,
		Note:      d.Note,
		Settled:   d.Settled,
		CreatedAt: d.CreatedAt,
	}
}

type createDebtRequest struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Amount string `json:"amount"`
	Note   string `json:"note"`
}

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request) {
	var req createDebtRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	debt := core.Debt{
		Name:   req.Name,
		Kind:   core.DebtKind(req.Kind),
		Amount: amount,
		Note:   req.Note,
	}
	if err := debt.Validate(); err != nil {
		respondDomainError(w, err)
		return
	}

	created, err := s.money.CreateDebt(r.Context(), debt)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toDebtResponse(created))
}

func (s *Server) handleListDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := s.money.ListDebts(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	out := make([]debtResponse, len(debts))
	for i, d := range debts {
		out[i] = toDebtResponse(d)
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleSettleDebt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.money.SettleDebt(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"settled": true})
}

func (s *Server) handleDeleteDebt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.money.DeleteDebt(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type goalResponse struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	SavedAmount  decimal.Decimal `json:"saved_amount"`
	Deadline     string          `json:"deadline,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

func toGoalResponse(g core.SavingsGoal) goalResponse {
	resp := goalResponse{
		ID:           g.ID,
		Name:         g.Name,
		TargetAmount: g.TargetAmount,
		SavedAmount:  g.SavedAmount,
		CreatedAt:    g.CreatedAt,
	}
	if !g.Deadline.IsZero() {
		resp.Deadline = g.Deadline.String()
	}
	return resp
}

type createGoalRequest struct {
	Name         string `json:"name"`
	TargetAmount string `json:"target_amount"`
	Deadline     string `json:"deadline"`
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	target, err := parseAmount(req.TargetAmount)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	goal := core.SavingsGoal{
		Name:         req.Name,
		TargetAmount: target,
		SavedAmount:  decimal.Zero,
	}
	if req.Deadline != "" {
		if goal.Deadline, err = core.ParseDate(req.Deadline); err != nil {
			respondDomainError(w, err)
			return
		}
	}
	if err := goal.Validate(); err != nil {
		respondDomainError(w, err)
		return
	}

	created, err := s.money.CreateGoal(r.Context(), goal)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toGoalResponse(created))
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.money.ListGoals(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	out := make([]goalResponse, len(goals))
	for i, g := range goals {
		out[i] = toGoalResponse(g)
	}
	respondJSON(w, http.StatusOK, out)
}

type depositRequest struct {
	Amount string `json:"amount"`
}

func (s *Server) handleGoalDeposit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req depositRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if !amount.IsPositive() {
		respondDomainError(w, core.ErrInvalidAmount)
		return
	}

	goal, err := s.money.AddToGoal(r.Context(), id, amount)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalResponse(goal))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.money.DeleteGoal(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type challengeResponse struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	SavedAmount  decimal.Decimal `json:"saved_amount"`
	Completed    bool            `json:"completed"`
	CreatedAt    time.Time       `json:"created_at"`
}

func toChallengeResponse(c core.Challenge) challengeResponse {
	return challengeResponse{
		ID:           c.ID,
		Name:         c.Name,
		TargetAmount: c.TargetAmount,
		SavedAmount:  c.SavedAmount,
		Completed:    c.Completed,
		CreatedAt:    c.CreatedAt,
	}
}

type createChallengeRequest struct {
	Name         string `json:"name"`
	TargetAmount string `json:"target_amount"`
}

func (s *Server) handleCreateChallenge(w http.ResponseWriter, r *http.Request) {
	var req createChallengeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	target, err := parseAmount(req.TargetAmount)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	ch := core.Challenge{
		Name:         req.Name,
		TargetAmount: target,
		SavedAmount:  decimal.Zero,
	}
	if err := ch.Validate(); err != nil {
		respondDomainError(w, err)
		return
	}

	created, err := s.money.CreateChallenge(r.Context(), ch)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toChallengeResponse(created))
}

func (s *Server) handleListChallenges(w http.ResponseWriter, r *http.Request) {
	challenges, err := s.money.ListChallenges(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	out := make([]challengeResponse, len(challenges))
	for i, c := range challenges {
		out[i] = toChallengeResponse(c)
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleChallengeDeposit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req depositRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if !amount.IsPositive() {
		respondDomainError(w, core.ErrInvalidAmount)
		return
	}

	ch, err := s.money.AddToChallenge(r.Context(), id, amount)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toChallengeResponse(ch))
}

func (s *Server) handleDeleteChallenge(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.money.DeleteChallenge(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
