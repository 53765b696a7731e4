package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebooks/corebooks_backend/internal/apperrors"
	"github.com/corebooks/corebooks_backend/internal/core/domain"
	portsrepo "github.com/corebooks/corebooks_backend/internal/core/ports/repositories"
	portssvc "github.com/corebooks/corebooks_backend/internal/core/ports/services"
	"github.com/corebooks/corebooks_backend/internal/dto"
	"github.com/corebooks/corebooks_backend/internal/middleware"
	"github.com/corebooks/corebooks_backend/internal/utils/accounting"
	"github.com/corebooks/corebooks_backend/internal/utils/money"
)

var (
	ErrEntryUnbalanced    = errors.New("journal entry debits do not equal credits")
	ErrEntryMinLines      = errors.New("journal entry must have at least two lines")
	ErrEntryNotDraft      = errors.New("journal entry is not a draft")
	ErrEntryNotPosted     = errors.New("journal entry is not posted")
	ErrEntryReversed      = errors.New("journal entry has already been reversed")
	ErrPeriodNotPostable  = errors.New("fiscal period does not accept postings")
	ErrDateOutsidePeriod  = errors.New("entry date falls outside its fiscal period")
	ErrAccountNotPostable = errors.New("account is inactive or a header account")
	ErrVoidReasonMissing  = errors.New("void reason is required")
)

// journalService implements the double-entry posting engine.
type journalService struct {
	journalRepo portsrepo.JournalRepositoryFacade
	fiscalSvc   portssvc.FiscalReaderSvc
	accountSvc  portssvc.AccountReaderSvc
}

// NewJournalService creates a new journal service.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, fiscalSvc portssvc.FiscalReaderSvc, accountSvc portssvc.AccountReaderSvc) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		fiscalSvc:   fiscalSvc,
		accountSvc:  accountSvc,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// buildLines converts request lines into rounded, converted domain lines.
func buildLines(entryID string, reqs []dto.JournalLineRequest, rate decimal.Decimal, actorID string, now time.Time) ([]domain.JournalLine, error) {
	lines := make([]domain.JournalLine, len(reqs))
	for i, lr := range reqs {
		line := domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			LineNumber:  i + 1,
			AccountID:   lr.AccountID,
			Debit:       lr.Debit,
			Credit:      lr.Credit,
			CustomerID:  lr.CustomerID,
			SupplierID:  lr.SupplierID,
			ProductID:   lr.ProductID,
			ExpenseID:   lr.ExpenseID,
			Memo:        lr.Memo,
			AuditFields: domain.NewAuditFields(actorID, now),
		}
		if err := accounting.ValidateLine(line); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		lines[i] = accounting.ConvertLine(line, rate)
	}
	return lines, nil
}

// resolveRate normalises the optional request rate, defaulting to 1.
func resolveRate(req *decimal.Decimal) decimal.Decimal {
	if req == nil || req.IsZero() {
		return decimal.NewFromInt(1)
	}
	return money.RoundRate(*req)
}

// CreateDraft persists a new draft entry. Drafts need not balance yet.
func (s *journalService) CreateDraft(ctx context.Context, companyID string, req dto.CreateJournalEntryRequest, actorID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	period, err := s.fiscalSvc.FindPeriodForDate(ctx, companyID, req.EntryDate)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no fiscal period covers %s", apperrors.ErrValidation, req.EntryDate.Format("2006-01-02"))
		}
		return nil, fmt.Errorf("failed to resolve fiscal period: %w", err)
	}

	entryType := domain.EntryManual
	var ref domain.DocumentRef
	if req.Reference != nil {
		ref = domain.DocumentRef{Kind: req.Reference.Kind, ID: req.Reference.ID}
		if err := ref.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		entryType, err = ref.EntryType()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}
	if req.EntryType != nil {
		entryType = domain.JournalEntryType(*req.EntryType)
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()
	rate := resolveRate(req.ExchangeRate)

	lines, err := buildLines(entryID, req.Lines, rate, actorID, now)
	if err != nil {
		return nil, err
	}
	totalDebit, totalCredit := accounting.SumLines(lines)

	entry := domain.JournalEntry{
		EntryID:      entryID,
		CompanyID:    companyID,
		EntryDate:    req.EntryDate,
		PeriodID:     period.PeriodID,
		EntryType:    entryType,
		Reference:    ref,
		CurrencyCode: req.CurrencyCode,
		ExchangeRate: rate,
		TotalDebit:   totalDebit,
		TotalCredit:  totalCredit,
		Status:       domain.EntryDraft,
		Memo:         req.Memo,
		AuditFields:  domain.NewAuditFields(actorID, now),
	}

	if err := s.journalRepo.SaveDraft(ctx, entry, lines); err != nil {
		logger.Error("Failed to save draft entry", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	logger.Info("Draft entry created", slog.String("entry_id", entryID), slog.String("period_id", period.PeriodID))
	entry.Lines = lines
	return &entry, nil
}

// getEntryScoped fetches an entry header and enforces tenant scope.
func (s *journalService) getEntryScoped(ctx context.Context, companyID string, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return entry, nil
}

// GetEntry retrieves an entry with its lines.
func (s *journalService) GetEntry(ctx context.Context, companyID string, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.getEntryScoped(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entry lines: %w", err)
	}
	entry.Lines = lines
	return entry, nil
}

// FindByReference retrieves the non-voided entry generated from a document.
func (s *journalService) FindByReference(ctx context.Context, companyID string, ref domain.DocumentRef) (*domain.JournalEntry, error) {
	if err := ref.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if ref.IsZero() {
		return nil, fmt.Errorf("%w: empty document reference", apperrors.ErrValidation)
	}
	return s.journalRepo.FindEntryByReference(ctx, companyID, ref)
}

// ListEntries retrieves entries filtered by period or date range.
func (s *journalService) ListEntries(ctx context.Context, companyID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if params.PeriodID != "" {
		entries, err := s.journalRepo.ListEntriesByPeriod(ctx, companyID, params.PeriodID)
		if err != nil {
			logger.Error("Failed to list entries by period", slog.String("error", err.Error()), slog.String("period_id", params.PeriodID))
			return nil, fmt.Errorf("failed to list entries: %w", err)
		}
		return &dto.ListJournalEntriesResponse{Entries: dto.ToJournalEntryResponses(entries)}, nil
	}

	from := time.Time{}
	to := time.Now().UTC()
	if params.FromDate != nil {
		from = *params.FromDate
	}
	if params.ToDate != nil {
		to = *params.ToDate
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.journalRepo.ListEntriesByDateRange(ctx, companyID, from, to, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list entries by date range", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return &dto.ListJournalEntriesResponse{
		Entries:   dto.ToJournalEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

// UpdateDraft replaces a draft's header fields and lines.
func (s *journalService) UpdateDraft(ctx context.Context, companyID string, entryID string, req dto.UpdateJournalEntryRequest, actorID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.getEntryScoped(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.EntryDraft {
		return nil, fmt.Errorf("%w: status is %s", ErrEntryNotDraft, entry.Status)
	}

	now := time.Now().UTC()
	if req.EntryDate != nil {
		period, err := s.fiscalSvc.FindPeriodForDate(ctx, companyID, *req.EntryDate)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: no fiscal period covers %s", apperrors.ErrValidation, req.EntryDate.Format("2006-01-02"))
			}
			return nil, fmt.Errorf("failed to resolve fiscal period: %w", err)
		}
		entry.EntryDate = *req.EntryDate
		entry.PeriodID = period.PeriodID
	}
	if req.Memo != nil {
		entry.Memo = *req.Memo
	}

	var lines []domain.JournalLine
	if req.Lines != nil {
		lines, err = buildLines(entryID, req.Lines, entry.ExchangeRate, actorID, now)
		if err != nil {
			return nil, err
		}
	} else {
		lines, err = s.journalRepo.FindLinesByEntryID(ctx, entryID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch entry lines: %w", err)
		}
	}
	entry.TotalDebit, entry.TotalCredit = accounting.SumLines(lines)
	entry.Touch(actorID, now)

	if err := s.journalRepo.UpdateDraft(ctx, *entry, lines); err != nil {
		logger.Error("Failed to update draft entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to update draft: %w", err)
	}

	logger.Info("Draft entry updated", slog.String("entry_id", entryID))
	entry.Lines = lines
	return entry, nil
}

// DeleteDraft removes a draft entry entirely.
func (s *journalService) DeleteDraft(ctx context.Context, companyID string, entryID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.getEntryScoped(ctx, companyID, entryID)
	if err != nil {
		return err
	}
	if entry.Status != domain.EntryDraft {
		return fmt.Errorf("%w: status is %s", ErrEntryNotDraft, entry.Status)
	}
	if err := s.journalRepo.DeleteDraft(ctx, entryID); err != nil {
		logger.Error("Failed to delete draft entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	logger.Info("Draft entry deleted", slog.String("entry_id", entryID))
	return nil
}

// validateForPosting checks every posting precondition against the already
// locked period and entry. Line and account checks use the tx snapshot.
func validateForPosting(entry *domain.JournalEntry, period *domain.FiscalPeriod, lines []domain.JournalLine, accounts map[string]domain.Account) error {
	if entry.Status != domain.EntryDraft {
		return fmt.Errorf("%w: status is %s", ErrEntryNotDraft, entry.Status)
	}
	if !period.IsPostable() {
		return fmt.Errorf("%w: period is %s", ErrPeriodNotPostable, period.Status)
	}
	if !period.Contains(entry.EntryDate) {
		return fmt.Errorf("%w: %s outside [%s, %s]", ErrDateOutsidePeriod,
			entry.EntryDate.Format("2006-01-02"),
			period.StartDate.Format("2006-01-02"), period.EndDate.Format("2006-01-02"))
	}
	if len(lines) < 2 {
		return ErrEntryMinLines
	}
	for _, line := range lines {
		if err := accounting.ValidateLine(line); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		acc, ok := accounts[line.AccountID]
		if !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrIntegrity, line.AccountID)
		}
		if !acc.Postable() {
			return fmt.Errorf("%w: %s", ErrAccountNotPostable, acc.Code)
		}
	}
	if !accounting.IsBalanced(lines) {
		debit, credit := accounting.SumLines(lines)
		return fmt.Errorf("%w: debits %s, credits %s", ErrEntryUnbalanced, debit.String(), credit.String())
	}
	return nil
}

// CanPost reports whether the entry currently satisfies every posting
// precondition. Advisory only: PostEntry re-validates under locks.
func (s *journalService) CanPost(ctx context.Context, companyID string, entryID string) (bool, error) {
	entry, err := s.GetEntry(ctx, companyID, entryID)
	if err != nil {
		return false, err
	}
	period, err := s.fiscalSvc.GetPeriod(ctx, companyID, entry.PeriodID)
	if err != nil {
		return false, err
	}
	accounts := make(map[string]domain.Account)
	for _, line := range entry.Lines {
		acc, err := s.accountSvc.GetAccountByID(ctx, companyID, line.AccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return false, nil
			}
			return false, err
		}
		accounts[line.AccountID] = *acc
	}
	if err := validateForPosting(entry, period, entry.Lines, accounts); err != nil {
		return false, nil
	}
	return true, nil
}

// CanVoid reports whether the entry can be voided.
func (s *journalService) CanVoid(ctx context.Context, companyID string, entryID string) (bool, error) {
	entry, err := s.getEntryScoped(ctx, companyID, entryID)
	if err != nil {
		return false, err
	}
	if entry.Status != domain.EntryPosted {
		return false, nil
	}
	if entry.ReversedByEntryID != nil {
		return false, nil
	}
	period, err := s.fiscalSvc.GetPeriod(ctx, companyID, entry.PeriodID)
	if err != nil {
		return false, err
	}
	return period.IsPostable(), nil
}

// lineAccountIDs collects the distinct account IDs referenced by lines, in
// first-seen order so lock acquisition is deterministic.
func lineAccountIDs(lines []domain.JournalLine) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; !ok {
			seen[line.AccountID] = struct{}{}
			ids = append(ids, line.AccountID)
		}
	}
	return ids
}

// balanceDeltas folds lines into per-account debit/credit totals. With
// negate set the sides are swapped, producing the voiding deltas.
func balanceDeltas(lines []domain.JournalLine, negate bool) map[string]portsrepo.BalanceDelta {
	deltas := make(map[string]portsrepo.BalanceDelta)
	for _, line := range lines {
		d := deltas[line.AccountID]
		debit, credit := line.Debit, line.Credit
		if negate {
			debit, credit = debit.Neg(), credit.Neg()
		}
		d.Debit = d.Debit.Add(debit)
		d.Credit = d.Credit.Add(credit)
		deltas[line.AccountID] = d
	}
	return deltas
}

// PostEntry atomically posts a draft. The transaction locks the period,
// the entry and the referenced accounts in a fixed order, re-validates
// everything under those locks, allocates the entry number and applies the
// balance deltas. Any failure rolls the whole posting back.
func (s *journalService) PostEntry(ctx context.Context, companyID string, entryID string, actorID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var posted *domain.JournalEntry
	err := s.journalRepo.WithTx(ctx, func(ctx context.Context, tx portsrepo.JournalTxRepository) error {
		entry, err := tx.GetEntryForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if entry.CompanyID != companyID {
			return apperrors.ErrNotFound
		}

		period, err := tx.GetPeriodForUpdate(ctx, entry.PeriodID)
		if err != nil {
			return err
		}

		lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
		if err != nil {
			return fmt.Errorf("failed to fetch entry lines: %w", err)
		}

		accounts, err := tx.LockAccounts(ctx, lineAccountIDs(lines))
		if err != nil {
			return err
		}

		if err := validateForPosting(entry, period, lines, accounts); err != nil {
			return err
		}

		now := time.Now().UTC()
		seq, err := tx.AllocateEntryNumber(ctx, companyID, entry.EntryDate.Year())
		if err != nil {
			return fmt.Errorf("failed to allocate entry number: %w", err)
		}
		entryNumber := fmt.Sprintf("JE-%d-%06d", entry.EntryDate.Year(), seq)

		if err := tx.MarkPosted(ctx, entryID, entryNumber, actorID, now); err != nil {
			return err
		}
		if err := tx.ApplyBalanceDeltas(ctx, companyID, entry.PeriodID, balanceDeltas(lines, false), actorID, now); err != nil {
			return err
		}

		entry.EntryNumber = entryNumber
		entry.Status = domain.EntryPosted
		entry.PostedBy = actorID
		entry.PostedAt = &now
		entry.Touch(actorID, now)
		entry.Lines = lines
		posted = entry
		return nil
	})
	if err != nil {
		logger.Warn("Posting failed", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Entry posted", slog.String("entry_id", entryID), slog.String("entry_number", posted.EntryNumber))
	return posted, nil
}

// VoidEntry atomically voids a posted entry: its balance effect is
// subtracted back out and the entry is stamped voided with the reason.
// The entry and its lines stay queryable for audit.
func (s *journalService) VoidEntry(ctx context.Context, companyID string, entryID string, reason string, actorID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if reason == "" {
		return nil, ErrVoidReasonMissing
	}

	var voided *domain.JournalEntry
	err := s.journalRepo.WithTx(ctx, func(ctx context.Context, tx portsrepo.JournalTxRepository) error {
		entry, err := tx.GetEntryForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if entry.CompanyID != companyID {
			return apperrors.ErrNotFound
		}
		if entry.Status != domain.EntryPosted {
			return fmt.Errorf("%w: status is %s", ErrEntryNotPosted, entry.Status)
		}
		if entry.ReversedByEntryID != nil {
			return fmt.Errorf("%w: by entry %s", ErrEntryReversed, *entry.ReversedByEntryID)
		}

		period, err := tx.GetPeriodForUpdate(ctx, entry.PeriodID)
		if err != nil {
			return err
		}
		if !period.IsPostable() {
			return fmt.Errorf("%w: period is %s", ErrPeriodNotPostable, period.Status)
		}

		lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
		if err != nil {
			return fmt.Errorf("failed to fetch entry lines: %w", err)
		}
		if _, err := tx.LockAccounts(ctx, lineAccountIDs(lines)); err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := tx.MarkVoided(ctx, entryID, actorID, reason, now); err != nil {
			return err
		}
		if err := tx.ApplyBalanceDeltas(ctx, companyID, entry.PeriodID, balanceDeltas(lines, true), actorID, now); err != nil {
			return err
		}

		entry.Status = domain.EntryVoided
		entry.VoidedBy = actorID
		entry.VoidedAt = &now
		entry.VoidReason = reason
		entry.Touch(actorID, now)
		entry.Lines = lines
		voided = entry
		return nil
	})
	if err != nil {
		logger.Warn("Voiding failed", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Entry voided", slog.String("entry_id", entryID), slog.String("reason", reason))
	return voided, nil
}

// ReverseEntry creates and posts a new entry whose lines swap the debits
// and credits of the original. The original stays posted and is linked to
// its reversal; a reversed entry cannot be reversed again.
func (s *journalService) ReverseEntry(ctx context.Context, companyID string, entryID string, actorID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var reversal *domain.JournalEntry
	err := s.journalRepo.WithTx(ctx, func(ctx context.Context, tx portsrepo.JournalTxRepository) error {
		original, err := tx.GetEntryForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if original.CompanyID != companyID {
			return apperrors.ErrNotFound
		}
		if original.Status != domain.EntryPosted {
			return fmt.Errorf("%w: status is %s", ErrEntryNotPosted, original.Status)
		}
		if original.ReversedByEntryID != nil {
			return fmt.Errorf("%w: by entry %s", ErrEntryReversed, *original.ReversedByEntryID)
		}

		period, err := tx.GetPeriodForUpdate(ctx, original.PeriodID)
		if err != nil {
			return err
		}
		if !period.IsPostable() {
			return fmt.Errorf("%w: period is %s", ErrPeriodNotPostable, period.Status)
		}

		originalLines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
		if err != nil {
			return fmt.Errorf("failed to fetch entry lines: %w", err)
		}
		if _, err := tx.LockAccounts(ctx, lineAccountIDs(originalLines)); err != nil {
			return err
		}

		now := time.Now().UTC()
		newEntryID := uuid.NewString()
		swapped := accounting.SwapSides(originalLines)
		for i := range swapped {
			swapped[i].LineID = uuid.NewString()
			swapped[i].EntryID = newEntryID
			swapped[i].AuditFields = domain.NewAuditFields(actorID, now)
		}
		totalDebit, totalCredit := accounting.SumLines(swapped)

		seq, err := tx.AllocateEntryNumber(ctx, companyID, original.EntryDate.Year())
		if err != nil {
			return fmt.Errorf("failed to allocate entry number: %w", err)
		}
		entryNumber := fmt.Sprintf("JE-%d-%06d", original.EntryDate.Year(), seq)

		newEntry := domain.JournalEntry{
			EntryID:         newEntryID,
			CompanyID:       companyID,
			EntryNumber:     entryNumber,
			EntryDate:       original.EntryDate,
			PeriodID:        original.PeriodID,
			EntryType:       original.EntryType,
			CurrencyCode:    original.CurrencyCode,
			ExchangeRate:    original.ExchangeRate,
			TotalDebit:      totalDebit,
			TotalCredit:     totalCredit,
			Status:          domain.EntryPosted,
			Memo:            fmt.Sprintf("Reversal of %s", original.EntryNumber),
			ReversesEntryID: &original.EntryID,
			PostedBy:        actorID,
			PostedAt:        &now,
			AuditFields:     domain.NewAuditFields(actorID, now),
		}

		if err := tx.InsertEntry(ctx, newEntry); err != nil {
			return err
		}
		if err := tx.InsertLines(ctx, swapped); err != nil {
			return err
		}
		if err := tx.SetReversedBy(ctx, original.EntryID, newEntryID, actorID, now); err != nil {
			return err
		}
		if err := tx.ApplyBalanceDeltas(ctx, companyID, original.PeriodID, balanceDeltas(swapped, false), actorID, now); err != nil {
			return err
		}

		newEntry.Lines = swapped
		reversal = &newEntry
		return nil
	})
	if err != nil {
		logger.Warn("Reversal failed", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Entry reversed", slog.String("entry_id", entryID), slog.String("reversal_entry_id", reversal.EntryID))
	return reversal, nil
}
