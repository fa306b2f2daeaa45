package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexalink/referral_network_app/internal/apperrors"
	"github.com/nexalink/referral_network_app/internal/core/domain"
	portsrepo "github.com/nexalink/referral_network_app/internal/core/ports/repositories"
	"github.com/nexalink/referral_network_app/internal/models"
	"github.com/nexalink/referral_network_app/internal/utils/mapping"
)

// querier abstracts over *pgxpool.Pool and pgx.Tx so the same query code
// serves both direct calls and calls made inside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgxMemberRepository persists members and their income ledger in PostgreSQL.
type PgxMemberRepository struct {
	memberQueries
	pool *pgxpool.Pool
}

func NewPgxMemberRepository(pool *pgxpool.Pool) *PgxMemberRepository {
	return &PgxMemberRepository{
		memberQueries: memberQueries{db: pool},
		pool:          pool,
	}
}

// Ensure PgxMemberRepository implements the full repository contract.
var _ portsrepo.MemberRepositoryWithTx = (*PgxMemberRepository)(nil)

// WithTx runs fn inside a single database transaction. The view handed to fn
// reads member rows with FOR UPDATE, so a placement's sponsor row and an
// activation's ancestor rows stay locked until commit. Because an activation
// locks rows from the new member upward, concurrent activations on
// overlapping lineages serialize instead of deadlocking only when they share
// the lowest common ancestor first; overlapping walks always reach that
// ancestor, so the ordering holds.
func (r *PgxMemberRepository) WithTx(ctx context.Context, fn portsrepo.TxFn) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}

	view := &txMemberRepository{memberQueries: memberQueries{db: tx, forUpdate: true}}
	if err := fn(view); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// txMemberRepository is the repository view inside a transaction.
type txMemberRepository struct {
	memberQueries
}

var _ portsrepo.MemberRepositoryFacade = (*txMemberRepository)(nil)

// memberQueries implements the member and ledger operations against any
// querier. With forUpdate set, single-row member reads take row locks.
type memberQueries struct {
	db        querier
	forUpdate bool
}

const memberColumns = `member_id, username, email, password_hash, sponsor_id, directs, status,
		activation_wallet, matching_wallet, total_income, matched_pairs, is_admin,
		created_at, created_by, last_updated_at, last_updated_by`

func scanMember(row pgx.Row) (models.Member, error) {
	var m models.Member
	err := row.Scan(
		&m.MemberID,
		&m.Username,
		&m.Email,
		&m.PasswordHash,
		&m.SponsorID,
		&m.Directs,
		&m.Status,
		&m.ActivationWallet,
		&m.MatchingWallet,
		&m.TotalIncome,
		&m.MatchedPairs,
		&m.IsAdmin,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (q memberQueries) lockClause() string {
	if q.forUpdate {
		return " FOR UPDATE"
	}
	return ""
}

func (q memberQueries) FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE member_id = $1` + q.lockClause() + `;`
	m, err := scanMember(q.db.QueryRow(ctx, query, memberID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("member %s: %w", memberID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find member by ID %s: %w", memberID, err)
	}
	member := mapping.ToDomainMember(m)
	return &member, nil
}

func (q memberQueries) FindMemberByUsername(ctx context.Context, username string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE lower(username) = lower($1)` + q.lockClause() + `;`
	m, err := scanMember(q.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("username %s: %w", username, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find member by username %s: %w", username, err)
	}
	member := mapping.ToDomainMember(m)
	return &member, nil
}

func (q memberQueries) FindMembersByIDs(ctx context.Context, memberIDs []string) (map[string]domain.Member, error) {
	if len(memberIDs) == 0 {
		return map[string]domain.Member{}, nil
	}

	// Batch reads stay lock-free even in a transaction; the subtree walks
	// that use them only need a consistent read of each child.
	query := `SELECT ` + memberColumns + ` FROM members WHERE member_id = ANY($1);`
	rows, err := q.db.Query(ctx, query, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query members by IDs: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Member, len(memberIDs))
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		out[m.MemberID] = mapping.ToDomainMember(m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", rows.Err())
	}
	return out, nil
}

func (q memberQueries) ListMembers(ctx context.Context, limit int, offset int) ([]domain.Member, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + memberColumns + `
		FROM members
		ORDER BY created_at ASC, member_id ASC
		LIMIT $1 OFFSET $2;`
	rows, err := q.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	members := []domain.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		members = append(members, mapping.ToDomainMember(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", rows.Err())
	}
	return members, nil
}

func (q memberQueries) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	var taken bool
	err := q.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM members WHERE lower(username) = lower($1));`, username).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("failed to check username availability: %w", err)
	}
	return taken, nil
}

func (q memberQueries) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	var taken bool
	err := q.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM members WHERE lower(email) = lower($1));`, email).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("failed to check email availability: %w", err)
	}
	return taken, nil
}

func (q memberQueries) SaveMember(ctx context.Context, member domain.Member) error {
	m := mapping.ToModelMember(member)
	query := `
		INSERT INTO members (member_id, username, email, password_hash, sponsor_id, directs, status,
			activation_wallet, matching_wallet, total_income, matched_pairs, is_admin,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := q.db.Exec(ctx, query,
		m.MemberID,
		m.Username,
		m.Email,
		m.PasswordHash,
		m.SponsorID,
		m.Directs,
		m.Status,
		m.ActivationWallet,
		m.MatchingWallet,
		m.TotalIncome,
		m.MatchedPairs,
		m.IsAdmin,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("member already exists: %w", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save member: %w", err)
	}
	return nil
}

func (q memberQueries) UpdateMember(ctx context.Context, member domain.Member) error {
	m := mapping.ToModelMember(member)
	query := `
		UPDATE members
		SET directs = $1, status = $2, activation_wallet = $3, matching_wallet = $4,
			total_income = $5, matched_pairs = $6, is_admin = $7,
			last_updated_at = $8, last_updated_by = $9
		WHERE member_id = $10;
	`
	cmdTag, err := q.db.Exec(ctx, query,
		m.Directs,
		m.Status,
		m.ActivationWallet,
		m.MatchingWallet,
		m.TotalIncome,
		m.MatchedPairs,
		m.IsAdmin,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.MemberID,
	)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("member %s: %w", m.MemberID, apperrors.ErrNotFound)
	}
	return nil
}

func (q memberQueries) AppendLedgerEntries(ctx context.Context, entries []domain.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	query := `
		INSERT INTO ledger_entries (entry_id, member_id, entry_type, from_member_id, level, pairs_added, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, entry := range entries {
		e := mapping.ToModelLedgerEntry(entry)
		_, err := q.db.Exec(ctx, query,
			e.EntryID,
			e.MemberID,
			e.EntryType,
			e.FromMemberID,
			e.Level,
			e.PairsAdded,
			e.Amount,
			e.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to append ledger entry %s: %w", e.EntryID, err)
		}
	}
	return nil
}

func (q memberQueries) ListLedgerEntriesByMember(ctx context.Context, memberID string) ([]domain.LedgerEntry, error) {
	query := `
		SELECT entry_id, member_id, entry_type, from_member_id, level, pairs_added, amount, created_at
		FROM ledger_entries
		WHERE member_id = $1
		ORDER BY created_at ASC, entry_id ASC;
	`
	rows, err := q.db.Query(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.LedgerEntry{}
	for rows.Next() {
		var e models.LedgerEntry
		err := rows.Scan(
			&e.EntryID,
			&e.MemberID,
			&e.EntryType,
			&e.FromMemberID,
			&e.Level,
			&e.PairsAdded,
			&e.Amount,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry row: %w", err)
		}
		entries = append(entries, mapping.ToDomainLedgerEntry(e))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating ledger entry rows: %w", rows.Err())
	}
	return entries, nil
}
