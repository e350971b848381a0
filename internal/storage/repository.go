package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"cartera/internal/core"
	applog "cartera/internal/log"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Single connection so session pragmas apply to every statement.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Card deletes cascade to transactions.
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- cards ---

func (r *SQLiteRepository) CreateCard(ctx context.Context, card core.Card) (core.Card, error) {
	card.CreatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO cards (name, kind, cut_off_day, grace_period_days, credit_limit, opening_balance, current_balance, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		card.Name, string(card.Kind), card.CutOffDay, card.GracePeriodDays,
		card.CreditLimit.String(), card.OpeningBalance.String(), card.CurrentBalance.String(),
		card.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return core.Card{}, fmt.Errorf("create card: %w", err)
	}

	card.ID, err = res.LastInsertId()
	if err != nil {
		return core.Card{}, fmt.Errorf("card insert id: %w", err)
	}

	slog.InfoContext(ctx, "Card saved to SQLite",
		applog.FieldCardID, card.ID,
		applog.FieldCardName, card.Name,
		"kind", card.Kind)

	return card, nil
}

func (r *SQLiteRepository) GetCard(ctx context.Context, id int64) (core.Card, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, kind, cut_off_day, grace_period_days, credit_limit, opening_balance, current_balance, created_at
		FROM cards WHERE id = ?`, id)

	card, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Card{}, fmt.Errorf("card %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Card{}, fmt.Errorf("get card: %w", err)
	}
	return card, nil
}

func (r *SQLiteRepository) ListCards(ctx context.Context) ([]core.Card, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, kind, cut_off_day, grace_period_days, credit_limit, opening_balance, current_balance, created_at
		FROM cards ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var cards []core.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

func (r *SQLiteRepository) UpdateCardBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	res, err := r.db.ExecContext(ctx, `UPDATE cards SET current_balance = ? WHERE id = ?`,
		balance.String(), id)
	if err != nil {
		return fmt.Errorf("update card balance: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("card %d: %w", id, ErrNotFound)
	}
	return nil
}

// UpdateCard rewrites a card's editable parameters. Kind and balances stay
// untouched; balances only move through transactions.
func (r *SQLiteRepository) UpdateCard(ctx context.Context, card core.Card) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cards SET name = ?, cut_off_day = ?, grace_period_days = ?, credit_limit = ?
		WHERE id = ?`,
		card.Name, card.CutOffDay, card.GracePeriodDays, card.CreditLimit.String(), card.ID)
	if err != nil {
		return fmt.Errorf("update card: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("card %d: %w", card.ID, ErrNotFound)
	}
	return nil
}

// DeleteCard removes a card; its transactions go with it via the foreign key.
func (r *SQLiteRepository) DeleteCard(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("card %d: %w", id, ErrNotFound)
	}
	slog.InfoContext(ctx, "Card deleted from SQLite", applog.FieldCardID, id)
	return nil
}

// --- transactions ---

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	tx.CreatedAt = time.Now().UTC()

	var totalAmount, count, number any
	if tx.Installment != nil {
		totalAmount = tx.Installment.TotalAmount.String()
		count = tx.Installment.Count
		number = tx.Installment.Number
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (card_id, kind, amount, date, description, installments_total_amount, installments_count, installment_number, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.CardID, string(tx.Kind), tx.Amount.String(), tx.Date.String(), tx.Description,
		totalAmount, count, number, tx.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	tx.ID, err = res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		applog.FieldTransactionID, tx.ID,
		applog.FieldCardID, tx.CardID,
		"kind", tx.Kind,
		applog.FieldAmount, tx.Amount.String(),
		"date", tx.Date.String())

	return tx, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, card_id, kind, amount, date, description, installments_total_amount, installments_count, installment_number, created_at
		FROM transactions WHERE id = ?`, id)

	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

func (r *SQLiteRepository) ListTransactionsByCard(ctx context.Context, cardID int64) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, card_id, kind, amount, date, description, installments_total_amount, installments_count, installment_number, created_at
		FROM transactions WHERE card_id = ? ORDER BY date, created_at, id`, cardID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// PendingSyncTransactions returns transactions not yet exported, oldest first.
func (r *SQLiteRepository) PendingSyncTransactions(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, card_id, kind, amount, date, description, installments_total_amount, installments_count, installment_number, created_at
		FROM transactions WHERE synced = 0 AND sync_error = 0 ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE transactions SET synced = 1, sync_error = 0 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as synced", applog.FieldTransactionID, id)
	return nil
}

func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE transactions SET sync_error = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", applog.FieldTransactionID, id)
	return nil
}

// --- debts ---

func (r *SQLiteRepository) CreateDebt(ctx context.Context, debt core.Debt) (core.Debt, error) {
	debt.CreatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO debts (name, kind, amount, note, settled, created_at)
		VALUES (?, ?, ?, ?, 0, ?)`,
		debt.Name, string(debt.Kind), debt.Amount.String(), debt.Note,
		debt.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return core.Debt{}, fmt.Errorf("create debt: %w", err)
	}
	debt.ID, err = res.LastInsertId()
	if err != nil {
		return core.Debt{}, fmt.Errorf("debt insert id: %w", err)
	}
	return debt, nil
}

func (r *SQLiteRepository) GetDebt(ctx context.Context, id int64) (core.Debt, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, kind, amount, note, settled, created_at FROM debts WHERE id = ?`, id)

	var (
		debt      core.Debt
		kind      string
		amount    string
		settled   int
		createdAt string
	)
	err := row.Scan(&debt.ID, &debt.Name, &kind, &amount, &debt.Note, &settled, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Debt{}, fmt.Errorf("debt %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Debt{}, fmt.Errorf("get debt: %w", err)
	}
	debt.Kind = core.DebtKind(kind)
	debt.Settled = settled != 0
	if debt.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.Debt{}, fmt.Errorf("parse debt amount: %w", err)
	}
	if debt.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return core.Debt{}, fmt.Errorf("parse debt created_at: %w", err)
	}
	return debt, nil
}

func (r *SQLiteRepository) ListDebts(ctx context.Context) ([]core.Debt, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, kind, amount, note, settled, created_at FROM debts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	defer rows.Close()

	var debts []core.Debt
	for rows.Next() {
		var (
			debt      core.Debt
			kind      string
			amount    string
			settled   int
			createdAt string
		)
		if err := rows.Scan(&debt.ID, &debt.Name, &kind, &amount, &debt.Note, &settled, &createdAt); err != nil {
			return nil, fmt.Errorf("scan debt: %w", err)
		}
		debt.Kind = core.DebtKind(kind)
		debt.Settled = settled != 0
		if debt.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse debt amount: %w", err)
		}
		if debt.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parse debt created_at: %w", err)
		}
		debts = append(debts, debt)
	}
	return debts, rows.Err()
}

func (r *SQLiteRepository) SettleDebt(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE debts SET settled = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("settle debt: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("debt %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeleteDebt(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM debts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete debt: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("debt %d: %w", id, ErrNotFound)
	}
	return nil
}

// --- savings goals ---

func (r *SQLiteRepository) CreateGoal(ctx context.Context, goal core.SavingsGoal) (core.SavingsGoal, error) {
	goal.CreatedAt = time.Now().UTC()

	var deadline any
	if !goal.Deadline.IsZero() {
		deadline = goal.Deadline.String()
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO savings_goals (name, target_amount, saved_amount, deadline, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		goal.Name, goal.TargetAmount.String(), goal.SavedAmount.String(), deadline,
		goal.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("create savings goal: %w", err)
	}
	goal.ID, err = res.LastInsertId()
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("savings goal insert id: %w", err)
	}
	return goal, nil
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, id int64) (core.SavingsGoal, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, target_amount, saved_amount, deadline, created_at FROM savings_goals WHERE id = ?`, id)

	goal, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.SavingsGoal{}, fmt.Errorf("savings goal %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("get savings goal: %w", err)
	}
	return goal, nil
}

func (r *SQLiteRepository) ListGoals(ctx context.Context) ([]core.SavingsGoal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, target_amount, saved_amount, deadline, created_at FROM savings_goals ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list savings goals: %w", err)
	}
	defer rows.Close()

	var goals []core.SavingsGoal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan savings goal: %w", err)
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

// AddToGoal increments the saved amount and returns the updated goal.
func (r *SQLiteRepository) AddToGoal(ctx context.Context, id int64, amount decimal.Decimal) (core.SavingsGoal, error) {
	goal, err := r.GetGoal(ctx, id)
	if err != nil {
		return core.SavingsGoal{}, err
	}
	goal.SavedAmount = goal.SavedAmount.Add(amount)

	if _, err := r.db.ExecContext(ctx, `UPDATE savings_goals SET saved_amount = ? WHERE id = ?`,
		goal.SavedAmount.String(), id); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("update savings goal: %w", err)
	}
	return goal, nil
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM savings_goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete savings goal: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("savings goal %d: %w", id, ErrNotFound)
	}
	return nil
}

// --- challenges ---

func (r *SQLiteRepository) CreateChallenge(ctx context.Context, ch core.Challenge) (core.Challenge, error) {
	ch.CreatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO challenges (name, target_amount, saved_amount, completed, created_at)
		VALUES (?, ?, ?, 0, ?)`,
		ch.Name, ch.TargetAmount.String(), ch.SavedAmount.String(),
		ch.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return core.Challenge{}, fmt.Errorf("create challenge: %w", err)
	}
	ch.ID, err = res.LastInsertId()
	if err != nil {
		return core.Challenge{}, fmt.Errorf("challenge insert id: %w", err)
	}
	return ch, nil
}

func (r *SQLiteRepository) GetChallenge(ctx context.Context, id int64) (core.Challenge, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, target_amount, saved_amount, completed, created_at FROM challenges WHERE id = ?`, id)

	ch, err := scanChallenge(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Challenge{}, fmt.Errorf("challenge %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Challenge{}, fmt.Errorf("get challenge: %w", err)
	}
	return ch, nil
}

func (r *SQLiteRepository) ListChallenges(ctx context.Context) ([]core.Challenge, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, target_amount, saved_amount, completed, created_at FROM challenges ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	defer rows.Close()

	var challenges []core.Challenge
	for rows.Next() {
		ch, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("scan challenge: %w", err)
		}
		challenges = append(challenges, ch)
	}
	return challenges, rows.Err()
}

// AddToChallenge increments the saved amount, marking the challenge completed
// once the target is reached.
func (r *SQLiteRepository) AddToChallenge(ctx context.Context, id int64, amount decimal.Decimal) (core.Challenge, error) {
	ch, err := r.GetChallenge(ctx, id)
	if err != nil {
		return core.Challenge{}, err
	}
	ch.SavedAmount = ch.SavedAmount.Add(amount)
	ch.Completed = ch.SavedAmount.GreaterThanOrEqual(ch.TargetAmount)

	completed := 0
	if ch.Completed {
		completed = 1
	}
	if _, err := r.db.ExecContext(ctx, `UPDATE challenges SET saved_amount = ?, completed = ? WHERE id = ?`,
		ch.SavedAmount.String(), completed, id); err != nil {
		return core.Challenge{}, fmt.Errorf("update challenge: %w", err)
	}
	return ch, nil
}

func (r *SQLiteRepository) DeleteChallenge(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM challenges WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete challenge: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("challenge %d: %w", id, ErrNotFound)
	}
	return nil
}

// --- scanning ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (core.Card, error) {
	var (
		card                                        core.Card
		kind                                        string
		creditLimit, openingBalance, currentBalance string
		createdAt                                   string
	)
	if err := row.Scan(&card.ID, &card.Name, &kind, &card.CutOffDay, &card.GracePeriodDays,
		&creditLimit, &openingBalance, &currentBalance, &createdAt); err != nil {
		return core.Card{}, err
	}
	card.Kind = core.CardKind(kind)

	var err error
	if card.CreditLimit, err = decimal.NewFromString(creditLimit); err != nil {
		return core.Card{}, fmt.Errorf("parse credit limit: %w", err)
	}
	if card.OpeningBalance, err = decimal.NewFromString(openingBalance); err != nil {
		return core.Card{}, fmt.Errorf("parse opening balance: %w", err)
	}
	if card.CurrentBalance, err = decimal.NewFromString(currentBalance); err != nil {
		return core.Card{}, fmt.Errorf("parse current balance: %w", err)
	}
	if card.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return core.Card{}, fmt.Errorf("parse card created_at: %w", err)
	}
	return card, nil
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx           core.Transaction
		kind         string
		amount, date string
		totalAmount  sql.NullString
		count        sql.NullInt64
		number       sql.NullInt64
		createdAt    string
	)
	if err := row.Scan(&tx.ID, &tx.CardID, &kind, &amount, &date, &tx.Description,
		&totalAmount, &count, &number, &createdAt); err != nil {
		return core.Transaction{}, err
	}
	tx.Kind = core.TransactionKind(kind)

	var err error
	if tx.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction amount: %w", err)
	}
	if tx.Date, err = core.ParseDate(date); err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction date: %w", err)
	}
	if tx.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction created_at: %w", err)
	}

	if totalAmount.Valid && count.Valid && number.Valid {
		total, err := decimal.NewFromString(totalAmount.String)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("parse installment total: %w", err)
		}
		tx.Installment = &core.Installment{
			TotalAmount: total,
			Count:       int(count.Int64),
			Number:      int(number.Int64),
		}
	}
	return tx, nil
}

func scanGoal(row rowScanner) (core.SavingsGoal, error) {
	var (
		goal          core.SavingsGoal
		target, saved string
		deadline      sql.NullString
		createdAt     string
	)
	if err := row.Scan(&goal.ID, &goal.Name, &target, &saved, &deadline, &createdAt); err != nil {
		return core.SavingsGoal{}, err
	}

	var err error
	if goal.TargetAmount, err = decimal.NewFromString(target); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("parse target amount: %w", err)
	}
	if goal.SavedAmount, err = decimal.NewFromString(saved); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("parse saved amount: %w", err)
	}
	if deadline.Valid {
		if goal.Deadline, err = core.ParseDate(deadline.String); err != nil {
			return core.SavingsGoal{}, fmt.Errorf("parse deadline: %w", err)
		}
	}
	if goal.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("parse goal created_at: %w", err)
	}
	return goal, nil
}

func scanChallenge(row rowScanner) (core.Challenge, error) {
	var (
		ch            core.Challenge
		target, saved string
		completed     int
		createdAt     string
	)
	if err := row.Scan(&ch.ID, &ch.Name, &target, &saved, &completed, &createdAt); err != nil {
		return core.Challenge{}, err
	}
	ch.Completed = completed != 0

	var err error
	if ch.TargetAmount, err = decimal.NewFromString(target); err != nil {
		return core.Challenge{}, fmt.Errorf("parse target amount: %w", err)
	}
	if ch.SavedAmount, err = decimal.NewFromString(saved); err != nil {
		return core.Challenge{}, fmt.Errorf("parse saved amount: %w", err)
	}
	if ch.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return core.Challenge{}, fmt.Errorf("parse challenge created_at: %w", err)
	}
	return ch, nil
}
