package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/nexalink/referral_network_app/internal/apperrors"
	"github.com/nexalink/referral_network_app/internal/core/domain"
	portsrepo "github.com/nexalink/referral_network_app/internal/core/ports/repositories"
	"github.com/nexalink/referral_network_app/internal/models"
	"github.com/nexalink/referral_network_app/internal/utils/mapping"
)

// MemberRepository is the in-memory reference store: an arena of member
// records keyed by id, with uniqueness indexes and the income ledger.
//
// One store-wide RWMutex serializes all writers. That makes WithTx a single
// writer, which gives both guarantees the engine needs at once: the
// check-then-append of a placement is atomic per sponsor, and activation
// walks over overlapping lineages never interleave. Readers take the read
// lock and return copies, so they always observe a self-consistent member.
type MemberRepository struct {
	mu sync.RWMutex

	members    map[string]models.Member
	byUsername map[string]string // lowercased username -> member id
	byEmail    map[string]string // lowercased email -> member id
	ledger     map[string][]models.LedgerEntry

	// snapshotPath, when set, receives a full JSON rewrite of the store
	// after every committed mutation. Simple and durable enough for the
	// reference deployment; an append log is the scalable replacement.
	snapshotPath string
}

// snapshot is the on-disk format of the store.
type snapshot struct {
	Members []models.Member      `json:"members"`
	Ledger  []models.LedgerEntry `json:"ledger"`
}

// NewMemberRepository creates the store, loading the snapshot file when one
// exists at the given path. An empty path disables persistence.
func NewMemberRepository(snapshotPath string) (*MemberRepository, error) {
	r := &MemberRepository{
		members:      make(map[string]models.Member),
		byUsername:   make(map[string]string),
		byEmail:      make(map[string]string),
		ledger:       make(map[string][]models.LedgerEntry),
		snapshotPath: snapshotPath,
	}
	if snapshotPath != "" {
		if err := r.loadSnapshot(); err != nil {
			return nil, fmt.Errorf("failed to load snapshot from %s: %w", snapshotPath, err)
		}
	}
	return r, nil
}

var _ portsrepo.MemberRepositoryWithTx = (*MemberRepository)(nil)

// NewRepositoryProvider creates a provider backed by the in-memory store.
func NewRepositoryProvider(snapshotPath string) (portsrepo.RepositoryProvider, error) {
	repo, err := NewMemberRepository(snapshotPath)
	if err != nil {
		return portsrepo.RepositoryProvider{}, err
	}
	return portsrepo.RepositoryProvider{MemberRepo: repo}, nil
}

func (r *MemberRepository) loadSnapshot() error {
	data, err := os.ReadFile(r.snapshotPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("corrupt snapshot: %w", err)
	}

	for _, m := range snap.Members {
		r.members[m.MemberID] = m
		r.byUsername[strings.ToLower(m.Username)] = m.MemberID
		r.byEmail[strings.ToLower(m.Email)] = m.MemberID
	}
	for _, e := range snap.Ledger {
		r.ledger[e.MemberID] = append(r.ledger[e.MemberID], e)
	}
	return nil
}

// persistLocked rewrites the snapshot file. Caller must hold the write lock.
func (r *MemberRepository) persistLocked() error {
	if r.snapshotPath == "" {
		return nil
	}

	snap := snapshot{
		Members: make([]models.Member, 0, len(r.members)),
	}
	for _, m := range r.members {
		snap.Members = append(snap.Members, m)
	}
	sort.Slice(snap.Members, func(i, j int) bool {
		return snap.Members[i].MemberID < snap.Members[j].MemberID
	})
	for _, entries := range r.ledger {
		snap.Ledger = append(snap.Ledger, entries...)
	}
	sort.Slice(snap.Ledger, func(i, j int) bool {
		if !snap.Ledger[i].CreatedAt.Equal(snap.Ledger[j].CreatedAt) {
			return snap.Ledger[i].CreatedAt.Before(snap.Ledger[j].CreatedAt)
		}
		return snap.Ledger[i].EntryID < snap.Ledger[j].EntryID
	})

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.WriteFile(r.snapshotPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// WithTx runs fn as the single writer. Mutations apply in place as fn makes
// them; on success the snapshot is rewritten once. An error from fn does not
// roll back already-applied mutations, matching the engine's documented
// partial-failure behavior for interrupted payout walks.
func (r *MemberRepository) WithTx(ctx context.Context, fn portsrepo.TxFn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := fn(&txView{repo: r}); err != nil {
		return err
	}
	return r.persistLocked()
}

// --- locked public interface (used outside WithTx) ---

func (r *MemberRepository) FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findMemberByIDLocked(memberID)
}

func (r *MemberRepository) FindMemberByUsername(ctx context.Context, username string) (*domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findMemberByUsernameLocked(username)
}

func (r *MemberRepository) FindMembersByIDs(ctx context.Context, memberIDs []string) (map[string]domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findMembersByIDsLocked(memberIDs)
}

func (r *MemberRepository) ListMembers(ctx context.Context, limit int, offset int) ([]domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listMembersLocked(limit, offset)
}

func (r *MemberRepository) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, taken := r.byUsername[strings.ToLower(username)]
	return taken, nil
}

func (r *MemberRepository) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, taken := r.byEmail[strings.ToLower(email)]
	return taken, nil
}

func (r *MemberRepository) SaveMember(ctx context.Context, member domain.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.saveMemberLocked(member); err != nil {
		return err
	}
	return r.persistLocked()
}

func (r *MemberRepository) UpdateMember(ctx context.Context, member domain.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.updateMemberLocked(member); err != nil {
		return err
	}
	return r.persistLocked()
}

func (r *MemberRepository) AppendLedgerEntries(ctx context.Context, entries []domain.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appendLedgerEntriesLocked(entries)
	return r.persistLocked()
}

func (r *MemberRepository) ListLedgerEntriesByMember(ctx context.Context, memberID string) ([]domain.LedgerEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listLedgerEntriesLocked(memberID), nil
}

// --- unlocked internals (caller holds the appropriate lock) ---

func (r *MemberRepository) findMemberByIDLocked(memberID string) (*domain.Member, error) {
	m, ok := r.members[memberID]
	if !ok {
		return nil, fmt.Errorf("member %s: %w", memberID, apperrors.ErrNotFound)
	}
	member := mapping.ToDomainMember(m)
	return &member, nil
}

func (r *MemberRepository) findMemberByUsernameLocked(username string) (*domain.Member, error) {
	id, ok := r.byUsername[strings.ToLower(username)]
	if !ok {
		return nil, fmt.Errorf("username %s: %w", username, apperrors.ErrNotFound)
	}
	return r.findMemberByIDLocked(id)
}

func (r *MemberRepository) findMembersByIDsLocked(memberIDs []string) (map[string]domain.Member, error) {
	out := make(map[string]domain.Member, len(memberIDs))
	for _, id := range memberIDs {
		if m, ok := r.members[id]; ok {
			out[id] = mapping.ToDomainMember(m)
		}
	}
	return out, nil
}

func (r *MemberRepository) listMembersLocked(limit int, offset int) ([]domain.Member, error) {
	ids := make([]string, 0, len(r.members))
	for id := range r.members {
		ids = append(ids, id)
	}
	// stable order: oldest first, id as tiebreaker
	sort.Slice(ids, func(i, j int) bool {
		a, b := r.members[ids[i]], r.members[ids[j]]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.MemberID < b.MemberID
	})

	if offset >= len(ids) {
		return []domain.Member{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(ids) {
		end = len(ids)
	}

	out := make([]domain.Member, 0, end-offset)
	for _, id := range ids[offset:end] {
		out = append(out, mapping.ToDomainMember(r.members[id]))
	}
	return out, nil
}

func (r *MemberRepository) saveMemberLocked(member domain.Member) error {
	if _, exists := r.members[member.MemberID]; exists {
		return fmt.Errorf("member %s: %w", member.MemberID, apperrors.ErrDuplicate)
	}
	usernameKey := strings.ToLower(member.Username)
	if _, taken := r.byUsername[usernameKey]; taken {
		return fmt.Errorf("username %s: %w", member.Username, apperrors.ErrDuplicate)
	}
	emailKey := strings.ToLower(member.Email)
	if _, taken := r.byEmail[emailKey]; taken {
		return fmt.Errorf("email %s: %w", member.Email, apperrors.ErrDuplicate)
	}

	r.members[member.MemberID] = mapping.ToModelMember(member)
	r.byUsername[usernameKey] = member.MemberID
	r.byEmail[emailKey] = member.MemberID
	return nil
}

func (r *MemberRepository) updateMemberLocked(member domain.Member) error {
	if _, exists := r.members[member.MemberID]; !exists {
		return fmt.Errorf("member %s: %w", member.MemberID, apperrors.ErrNotFound)
	}
	r.members[member.MemberID] = mapping.ToModelMember(member)
	return nil
}

func (r *MemberRepository) appendLedgerEntriesLocked(entries []domain.LedgerEntry) {
	for _, e := range entries {
		r.ledger[e.MemberID] = append(r.ledger[e.MemberID], mapping.ToModelLedgerEntry(e))
	}
}

func (r *MemberRepository) listLedgerEntriesLocked(memberID string) []domain.LedgerEntry {
	stored := r.ledger[memberID]
	out := make([]domain.LedgerEntry, len(stored))
	for i, e := range stored {
		out[i] = mapping.ToDomainLedgerEntry(e)
	}
	return out
}

// txView is the repository view handed to WithTx functions. It reuses the
// unlocked internals because the transaction already holds the write lock.
type txView struct {
	repo *MemberRepository
}

var _ portsrepo.MemberRepositoryFacade = (*txView)(nil)

func (v *txView) FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	return v.repo.findMemberByIDLocked(memberID)
}

func (v *txView) FindMemberByUsername(ctx context.Context, username string) (*domain.Member, error) {
	return v.repo.findMemberByUsernameLocked(username)
}

func (v *txView) FindMembersByIDs(ctx context.Context, memberIDs []string) (map[string]domain.Member, error) {
	return v.repo.findMembersByIDsLocked(memberIDs)
}

func (v *txView) ListMembers(ctx context.Context, limit int, offset int) ([]domain.Member, error) {
	return v.repo.listMembersLocked(limit, offset)
}

func (v *txView) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	_, taken := v.repo.byUsername[strings.ToLower(username)]
	return taken, nil
}

func (v *txView) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	_, taken := v.repo.byEmail[strings.ToLower(email)]
	return taken, nil
}

func (v *txView) SaveMember(ctx context.Context, member domain.Member) error {
	return v.repo.saveMemberLocked(member)
}

func (v *txView) UpdateMember(ctx context.Context, member domain.Member) error {
	return v.repo.updateMemberLocked(member)
}

func (v *txView) AppendLedgerEntries(ctx context.Context, entries []domain.LedgerEntry) error {
	v.repo.appendLedgerEntriesLocked(entries)
	return nil
}

func (v *txView) ListLedgerEntriesByMember(ctx context.Context, memberID string) ([]domain.LedgerEntry, error) {
	return v.repo.listLedgerEntriesLocked(memberID), nil
}
