package http

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"cartera/internal/billing"
	"cartera/internal/core"
	"cartera/internal/services"
)

type cardResponse struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Kind            string          `json:"kind"`
	CutOffDay       int             `json:"cut_off_day,omitempty"`
	GracePeriodDays int             `json:"grace_period_days,omitempty"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	OpeningBalance  decimal.Decimal `json:"opening_balance"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	CreatedAt       time.Time       `json:"created_at"`
}

func toCardResponse(c core.Card) cardResponse {
	return cardResponse{
		ID:              c.ID,
		Name:            c.Name,
		Kind:            string(c.Kind),
		CutOffDay:       c.CutOffDay,
		GracePeriodDays: c.GracePeriodDays,
		CreditLimit:     c.CreditLimit,
		OpeningBalance:  c.OpeningBalance,
		CurrentBalance:  c.CurrentBalance,
		CreatedAt:       c.CreatedAt,
	}
}

type installmentResponse struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
	Count       int             `json:"count"`
	Number      int             `json:"number"`
}

type transactionResponse struct {
	ID          int64                `json:"id"`
	CardID      int64                `json:"card_id"`
	Kind        string               `json:"kind"`
	Amount      decimal.Decimal      `json:"amount"`
	Date        core.Date            `json:"date"`
	Description string               `json:"description,omitempty"`
	Installment *installmentResponse `json:"installment,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

func toTransactionResponse(tx core.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:          tx.ID,
		CardID:      tx.CardID,
		Kind:        string(tx.Kind),
		Amount:      tx.Amount,
		Date:        tx.Date,
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt,
	}
	if tx.Installment != nil {
		resp.Installment = &installmentResponse{
			TotalAmount: tx.Installment.TotalAmount,
			Count:       tx.Installment.Count,
			Number:      tx.Installment.Number,
		}
	}
	return resp
}

func toTransactionResponses(txs []core.Transaction) []transactionResponse {
	out := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		out[i] = toTransactionResponse(tx)
	}
	return out
}

type createCardRequest struct {
	Name            string `json:"name"`
	Kind            string `json:"kind"`
	CutOffDay       int    `json:"cut_off_day"`
	GracePeriodDays int    `json:"grace_period_days"`
	CreditLimit     string `json:"credit_limit"`
	OpeningBalance  string `json:"opening_balance"`
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var req createCardRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	card := core.Card{
		Name:            req.Name,
		Kind:            core.CardKind(req.Kind),
		CutOffDay:       req.CutOffDay,
		GracePeriodDays: req.GracePeriodDays,
		CreditLimit:     decimal.Zero,
		OpeningBalance:  decimal.Zero,
	}

	var err error
	if req.CreditLimit != "" {
		if card.CreditLimit, err = parseAmount(req.CreditLimit); err != nil {
			respondDomainError(w, err)
			return
		}
	}
	if req.OpeningBalance != "" {
		if card.OpeningBalance, err = parseAmount(req.OpeningBalance); err != nil {
			respondDomainError(w, err)
			return
		}
	}

	created, err := s.cards.CreateCard(r.Context(), card)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCardResponse(created))
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.cards.ListCards(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	out := make([]cardResponse, len(cards))
	for i, c := range cards {
		out[i] = toCardResponse(c)
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	card, err := s.cards.GetCard(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCardResponse(card))
}

type updateCardRequest struct {
	Name            string `json:"name"`
	CutOffDay       int    `json:"cut_off_day"`
	GracePeriodDays int    `json:"grace_period_days"`
	CreditLimit     string `json:"credit_limit"`
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req updateCardRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	update := services.CardUpdate{
		Name:            req.Name,
		CutOffDay:       req.CutOffDay,
		GracePeriodDays: req.GracePeriodDays,
		CreditLimit:     decimal.Zero,
	}
	if req.CreditLimit != "" {
		if update.CreditLimit, err = parseAmount(req.CreditLimit); err != nil {
			respondDomainError(w, err)
			return
		}
	}

	card, err := s.cards.UpdateCard(r.Context(), id, update)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	// Cut-off and grace period changes shift statement boundaries.
	s.invalidateCard(id)
	respondJSON(w, http.StatusOK, toCardResponse(card))
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.cards.DeleteCard(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	s.invalidateCard(id)
	w.WriteHeader(http.StatusNoContent)
}

type createTransactionRequest struct {
	Kind         string `json:"kind"`
	Amount       string `json:"amount"`
	Date         string `json:"date"`
	Description  string `json:"description"`
	Installments int    `json:"installments"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	created, err := s.cards.RecordTransaction(r.Context(), services.NewTransaction{
		CardID:       id,
		Kind:         core.TransactionKind(req.Kind),
		Amount:       amount,
		Date:         date,
		Description:  req.Description,
		Installments: req.Installments,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	s.invalidateCard(id)
	respondJSON(w, http.StatusCreated, toTransactionResponses(created))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	txs, err := s.cards.ListTransactions(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionResponses(txs))
}

type statementResponse struct {
	Reconciliation billing.Reconciliation `json:"reconciliation"`
	NextStatement  billing.Statement      `json:"next_statement"`
}

func (s *Server) handleStatement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	today, err := dateOrToday(r)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	key := cardCachePrefix(id) + "statement:" + today.String()
	rec, ok := s.statementCache.Get(key)
	if !ok {
		rec, err = s.cards.Statement(r.Context(), id, today)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		s.statementCache.Set(key, rec)
	}

	next, err := s.cards.NextStatement(r.Context(), id, today)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, statementResponse{
		Reconciliation: rec,
		NextStatement:  next,
	})
}

type balancePointResponse struct {
	Transaction transactionResponse `json:"transaction"`
	Balance     decimal.Decimal     `json:"balance"`
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := cardCachePrefix(id) + "balances"
	points, ok := s.balancesCache.Get(key)
	if !ok {
		points, err = s.cards.Balances(r.Context(), id)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		s.balancesCache.Set(key, points)
	}

	// Most recent first for display; the trace itself is computed forward.
	out := make([]balancePointResponse, len(points))
	for i, p := range points {
		out[len(points)-1-i] = balancePointResponse{
			Transaction: toTransactionResponse(p.Transaction),
			Balance:     p.Balance,
		}
	}
	respondJSON(w, http.StatusOK, out)
}
