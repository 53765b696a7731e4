package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/corebooks/corebooks_backend/internal/apperrors"
	"github.com/corebooks/corebooks_backend/internal/core/domain"
	portsrepo "github.com/corebooks/corebooks_backend/internal/core/ports/repositories"
	portssvc "github.com/corebooks/corebooks_backend/internal/core/ports/services"
	"github.com/corebooks/corebooks_backend/internal/core/services"
	"github.com/corebooks/corebooks_backend/internal/dto"
	"github.com/corebooks/corebooks_backend/internal/utils/accounting"
)

const (
	testCompanyID = "company-1"
	testActorID   = "user-1"
)

type journalMocks struct {
	repo    *MockJournalRepository
	tx      *MockJournalTxRepository
	fiscal  *MockFiscalReaderSvc
	account *MockAccountReaderSvc
}

func newJournalService() (portssvc.JournalSvcFacade, *journalMocks) {
	m := &journalMocks{
		repo:    &MockJournalRepository{tx: &MockJournalTxRepository{}},
		fiscal:  new(MockFiscalReaderSvc),
		account: new(MockAccountReaderSvc),
	}
	m.tx = m.repo.tx
	return services.NewJournalService(m.repo, m.fiscal, m.account), m
}

func openPeriod() *domain.FiscalPeriod {
	return &domain.FiscalPeriod{
		PeriodID:     "period-3",
		YearID:       "year-2026",
		PeriodNumber: 3,
		Name:         "March 2026",
		StartDate:    day(2026, time.March, 1),
		EndDate:      day(2026, time.March, 31),
		Status:       domain.PeriodOpen,
	}
}

func draftEntry() *domain.JournalEntry {
	return &domain.JournalEntry{
		EntryID:      "entry-1",
		CompanyID:    testCompanyID,
		EntryDate:    day(2026, time.March, 15),
		PeriodID:     "period-3",
		EntryType:    domain.EntryManual,
		CurrencyCode: "USD",
		ExchangeRate: decimal.NewFromInt(1),
		TotalDebit:   dec("150.00"),
		TotalCredit:  dec("150.00"),
		Status:       domain.EntryDraft,
	}
}

func balancedLines() []domain.JournalLine {
	rate := decimal.NewFromInt(1)
	return []domain.JournalLine{
		accounting.ConvertLine(domain.JournalLine{
			LineID: "line-1", EntryID: "entry-1", LineNumber: 1, AccountID: "acc-cash", Debit: dec("150.00"),
		}, rate),
		accounting.ConvertLine(domain.JournalLine{
			LineID: "line-2", EntryID: "entry-1", LineNumber: 2, AccountID: "acc-revenue", Credit: dec("150.00"),
		}, rate),
	}
}

func postableAccounts() map[string]domain.Account {
	return map[string]domain.Account{
		"acc-cash":    {AccountID: "acc-cash", CompanyID: testCompanyID, Code: "1110", AccountType: domain.Asset, IsActive: true},
		"acc-revenue": {AccountID: "acc-revenue", CompanyID: testCompanyID, Code: "4000", AccountType: domain.Revenue, IsActive: true},
	}
}

func TestCreateDraft_Success(t *testing.T) {
	svc, m := newJournalService()
	ctx := context.Background()
	entryDate := day(2026, time.March, 15)

	m.fiscal.On("FindPeriodForDate", ctx, testCompanyID, entryDate).Return(openPeriod(), nil)
	m.repo.On("SaveDraft", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine")).Return(nil)

	entry, err := svc.CreateDraft(ctx, testCompanyID, dto.CreateJournalEntryRequest{
		EntryDate:    entryDate,
		CurrencyCode: "USD",
		Lines: []dto.JournalLineRequest{
			{AccountID: "acc-cash", Debit: dec("100.00")},
			{AccountID: "acc-revenue", Credit: dec("100.00")},
		},
	}, testActorID)

	assert.NoError(t, err)
	assert.NotNil(t, entry)
	assert.Equal(t, domain.EntryDraft, entry.Status)
	assert.Equal(t, "period-3", entry.PeriodID)
	assert.Equal(t, domain.EntryManual, entry.EntryType)
	assert.Empty(t, entry.EntryNumber, "numbers are allocated only at posting")
	assert.True(t, dec("100.00").Equal(entry.TotalDebit))
	assert.Len(t, entry.Lines, 2)
	assert.True(t, dec("100.00").Equal(entry.Lines[0].BaseDebit), "base amount filled from the rate")
	m.repo.AssertExpectations(t)
}

func TestCreateDraft_ReferenceSetsEntryType(t *testing.T) {
	svc, m := newJournalService()
	ctx := context.Background()
	entryDate := day(2026, time.March, 2)

	m.fiscal.On("FindPeriodForDate", ctx, testCompanyID, entryDate).Return(openPeriod(), nil)
	m.repo.On("SaveDraft", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine")).Return(nil)

	entry, err := svc.CreateDraft(ctx, testCompanyID, dto.CreateJournalEntryRequest{
		EntryDate:    entryDate,
		Reference:    &dto.DocumentRefRequest{Kind: domain.DocSalesInvoice, ID: "inv-42"},
		CurrencyCode: "USD",
		Lines: []dto.JournalLineRequest{
			{AccountID: "acc-cash", Debit: dec("50.00")},
			{AccountID: "acc-revenue", Credit: dec("50.00")},
		},
	}, testActorID)

	assert.NoError(t, err)
	assert.Equal(t, domain.EntrySalesInvoice, entry.EntryType)
	assert.Equal(t, "inv-42", entry.Reference.ID)
}

func TestCreateDraft_NoPeriodForDate(t *testing.T) {
	svc, m := newJournalService()
	ctx := context.Background()
	entryDate := day(2031, time.January, 1)

	m.fiscal.On("FindPeriodForDate", ctx, testCompanyID, entryDate).Return(nil, apperrors.ErrNotFound)

	_, err := svc.CreateDraft(ctx, testCompanyID, dto.CreateJournalEntryRequest{
		EntryDate:    entryDate,
		CurrencyCode: "USD",
		Lines: []dto.JournalLineRequest{
			{AccountID: "acc-cash", Debit: dec("10.00")},
			{AccountID: "acc-revenue", Credit: dec("10.00")},
		},
	}, testActorID)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	m.repo.AssertNotCalled(t, "SaveDraft", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateDraft_RejectsBothSidesSet(t *testing.T) {
	svc, m := newJournalService()
	ctx := context.Background()
	entryDate := day(2026, time.March, 15)

	m.fiscal.On("FindPeriodForDate", ctx, testCompanyID, entryDate).Return(openPeriod(), nil)

	_, err := svc.CreateDraft(ctx, testCompanyID, dto.CreateJournalEntryRequest{
		EntryDate:    entryDate,
		CurrencyCode: "USD",
		Lines: []dto.JournalLineRequest{
			{AccountID: "acc-cash", Debit: dec("10.00"), Credit: dec("10.00")},
			{AccountID: "acc-revenue", Credit: dec("10.00")},
		},
	}, testActorID)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	m.repo.AssertNotCalled(t, "SaveDraft", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetEntry_WrongCompanyReadsAsNotFound(t *testing.T) {
	svc, m := newJournalService()
	ctx := context.Background()

	foreign := draftEntry()
	foreign.CompanyID = "company-2"
	m.repo.On("FindEntryByID", ctx, "entry-1").Return(foreign, nil)

	_, err := svc.GetEntry(ctx, testCompanyID, "entry-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListEntries_ByPeriod(t *testing.T) {
	svc, m := newJournalService()
	ctx := context.Background()

	m.repo.On("ListEntriesByPeriod", ctx, testCompanyID, "period-3").
		Return([]domain.JournalEntry{*draftEntry()}, nil)

	resp, err := svc.ListEntries(ctx, testCompanyID, dto.ListJournalEntriesParams{PeriodID: "period-3"})

	assert.NoError(t, err)
	assert.Len(t, resp.Entries, 1)
	assert.Nil(t, resp.NextToken)
	m.repo.AssertNotCalled(t, "ListEntriesByDateRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListEntries_DateRangeDefaultsLimit(t *testing.T) {
	svc, m := newJournalService()
	ctx := context.Background()

	m.repo.On("ListEntriesByDateRange", ctx, testCompanyID, mock.Anything, mock.Anything, 20, (*string)(nil)).
		Return([]domain.JournalEntry{}, nil, nil)

	resp, err := svc.ListEntries(ctx, testCompanyID, dto.ListJournalEntriesParams{})

	assert.NoError(t, err)
	assert.Empty(t, resp.Entries)
	m.repo.AssertExpectations(t)
}

func TestPostEntry_Success(t *testing.T) {
	svc, m := newJournalService()
	ctx := context.Background()
	lines := balancedLines()

	m.repo.On("WithTx", ctx).Return(nil)
	m.tx.On("GetEntryForUpdate", ctx, "entry-1").Return(draftEntry(), nil)
	m.tx.On("GetPeriodForUpdate", ctx, "period-3").Return(openPeriod(), nil)
	m.repo.On("FindLinesByEntryID", ctx, "entry-1").Return(lines, nil)
	m.tx.On("LockAccounts", ctx, []string{"acc-cash", "acc-revenue"}).Return(postableAccounts(), nil)
	m.tx.On("AllocateEntryNumber", ctx, testCompanyID, 2026).Return(int64(1), nil)
	m.tx.On("MarkPosted", ctx, "entry-1", "JE-2026-000001", testActorID, mock.AnythingOfType("time.Time")).Return(nil)
	m.tx.On("ApplyBalanceDeltas", ctx, testCompanyID, "period-3",
		mock.MatchedBy(func(deltas map[string]portsrepo.BalanceDelta) bool {
			cash, ok := deltas["acc-cash"]
			if !ok || !cash.Debit.Equal(dec("150.00")) || !cash.Credit.IsZero() {
				return false
			}
			revenue, ok := deltas["acc-revenue"]
			return ok && revenue.Credit.Equal(dec("150.00")) && revenue.Debit.IsZero()
		}),
		testActorID, mock.AnythingOfType("time.Time")).Return(nil)

	posted, err := svc.PostEntry(ctx, testCompanyID, "entry-1", testActorID)

	assert.NoError(t, err)
	assert.Equal(t, domain.EntryPosted, posted.Status)
	assert.Equal(t, "JE-2026-000001", posted.EntryNumber)
	assert.Equal(t, testActorID, posted.PostedBy)
	assert.NotNil(t, posted.PostedAt)
	m.tx.AssertExpectations(t)
}

func TestPostEntry_Unbalanced(t *testing.T) {
	svc, m := newJournalService()
	ctx := context.Background()

	lines := balancedLines()
	lines[1].Credit = dec("149.99")
	lines[1].BaseCredit = dec("149.99")

	m.repo.On("WithTx", ctx).Return(nil)
	m.tx.On("GetEntryForUpdate", ctx, "entry-1").Return(draftEntry(), nil)
	m.tx.On("GetPeriodForUpdate", ctx, "period-3").Return(openPeriod(), nil)
	m.repo.On("FindLinesByEntryID", ctx, "entry-1").Return(lines, nil)
	m.tx.On("LockAccounts", ctx, mock.Anything).Return(postableAccounts(), nil)

	_, err := svc.PostEntry(ctx, testCompanyID, "entry-1", testActorID)

	assert.ErrorIs(t, err, services.ErrEntryUnbalanced)
	m.tx.AssertNotCalled(t, "MarkPosted", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.tx.AssertNotCalled(t, "ApplyBalanceDeltas", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPostEntry_ClosedPeriod(t *testing.T) {
	svc, m := newJournalService()
	ctx := context.Background()

	closed := openPeriod()
	closed.Status = domain.PeriodClosed

	m.repo.On("WithTx", ctx).Return(nil)
	m.tx.On("GetEntryForUpdate", ctx, "entry-1").Return(draftEntry(), nil)
	m.tx.On("GetPeriodForUpdate", ctx, "period-3").Return(closed, nil)
	m.repo.On("FindLinesByEntryID", ctx, "entry-1").Return(balancedLines(), nil)
	m.tx.On("LockAccounts", ctx, mock.Anything).Return(postableAccounts(), nil)

	_, err := svc.PostEntry(ctx, testCompanyID, "entry-1", testActorID)

	assert.ErrorIs(t, err, services.ErrPeriodNotPostable)
}

func TestPostEntry_HeaderAccountRejected(t *testing.T) {
	svc, m := newJournalService()
	ctx := context.Background()

	accounts := postableAccounts()
	header := accounts["acc-cash"]
	header.IsHeader = true
	accounts["acc-cash"] = header

	m.repo.On("WithTx", ctx).Return(nil)
	m.tx.On("GetEntryForUpdate", ctx, "entry-1").Return(draftEntry(), nil)
	m.tx.On("GetPeriodForUpdate", ctx, "period-3").Return(openPeriod(), nil)
	m.repo.On("FindLinesByEntryID", ctx, "entry-1").Return(balancedLines(), nil)
	m.tx.On("LockAccounts", ctx, mock.Anything).Return(accounts, nil)

	_, err := svc.PostEntry(ctx, testCompanyID, "entry-1", testActorID)

	assert.ErrorIs(t, err, services.ErrAccountNotPostable)
}

func TestPostEntry_WrongCompany(t *testing.T) {
	svc, m := newJournalService()
	ctx := context.Background()

	foreign := draftEntry()
	foreign.CompanyID = "company-2"

	m.repo.On("WithTx", ctx).Return(nil)
	m.tx.On("GetEntryForUpdate", ctx, "entry-1").Return(foreign, nil)

	_, err := svc.PostEntry(ctx, testCompanyID, "entry-1", testActorID)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestVoidEntry_RequiresReason(t *testing.T) {
	svc, m := newJournalService()
	ctx := context.Background()

	_, err := svc.VoidEntry(ctx, testCompanyID, "entry-1", "", testActorID)

	assert.ErrorIs(t, err, services.ErrVoidReasonMissing)
	m.repo.AssertNotCalled(t, "WithTx", mock.Anything)
}

func postedEntry() *domain.JournalEntry {
	entry := draftEntry()
	entry.Status = domain.EntryPosted
	entry.EntryNumber = "JE-2026-000001"
	postedAt := day(2026, time.March, 16)
	entry.PostedAt = &postedAt
	entry.PostedBy = testActorID
	return entry
}

func TestVoidEntry_Success(t *testing.T) {
	svc, m := newJournalService()
	ctx := context.Background()

	m.repo.On("WithTx", ctx).Return(nil)
	m.tx.On("GetEntryForUpdate", ctx, "entry-1").Return(postedEntry(), nil)
	m.tx.On("GetPeriodForUpdate", ctx, "period-3").Return(openPeriod(), nil)
	m.repo.On("FindLinesByEntryID", ctx, "entry-1").Return(balancedLines(), nil)
	m.tx.On("LockAccounts", ctx, mock.Anything).Return(postableAccounts(), nil)
	m.tx.On("MarkVoided", ctx, "entry-1", testActorID, "duplicate entry", mock.AnythingOfType("time.Time")).Return(nil)
	m.tx.On("ApplyBalanceDeltas", ctx, testCompanyID, "period-3",
		mock.MatchedBy(func(deltas map[string]portsrepo.BalanceDelta) bool {
			cash := deltas["acc-cash"]
			revenue := deltas["acc-revenue"]
			return cash.Debit.Equal(dec("-150.00")) && revenue.Credit.Equal(dec("-150.00"))
		}),
		testActorID, mock.AnythingOfType("time.Time")).Return(nil)

	voided, err := svc.VoidEntry(ctx, testCompanyID, "entry-1", "duplicate entry", testActorID)

	assert.NoError(t, err)
	assert.Equal(t, domain.EntryVoided, voided.Status)
	assert.Equal(t, "duplicate entry", voided.VoidReason)
	assert.NotNil(t, voided.VoidedAt)
	m.tx.AssertExpectations(t)
}

func TestVoidEntry_DraftRejected(t *testing.T) {
	svc, m := newJournalService()
	ctx := context.Background()

	m.repo.On("WithTx", ctx).Return(nil)
	m.tx.On("GetEntryForUpdate", ctx, "entry-1").Return(draftEntry(), nil)

	_, err := svc.VoidEntry(ctx, testCompanyID, "entry-1", "mistake", testActorID)

	assert.ErrorIs(t, err, services.ErrEntryNotPosted)
}

func TestVoidEntry_AlreadyReversed(t *testing.T) {
	svc, m := newJournalService()
	ctx := context.Background()

	entry := postedEntry()
	reversalID := "entry-2"
	entry.ReversedByEntryID = &reversalID

	m.repo.On("WithTx", ctx).Return(nil)
	m.tx.On("GetEntryForUpdate", ctx, "entry-1").Return(entry, nil)

	_, err := svc.VoidEntry(ctx, testCompanyID, "entry-1", "mistake", testActorID)

	assert.ErrorIs(t, err, services.ErrEntryReversed)
	m.tx.AssertNotCalled(t, "MarkVoided", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReverseEntry_Success(t *testing.T) {
	svc, m := newJournalService()
	ctx := context.Background()

	m.repo.On("WithTx", ctx).Return(nil)
	m.tx.On("GetEntryForUpdate", ctx, "entry-1").Return(postedEntry(), nil)
	m.tx.On("GetPeriodForUpdate", ctx, "period-3").Return(openPeriod(), nil)
	m.repo.On("FindLinesByEntryID", ctx, "entry-1").Return(balancedLines(), nil)
	m.tx.On("LockAccounts", ctx, mock.Anything).Return(postableAccounts(), nil)
	m.tx.On("AllocateEntryNumber", ctx, testCompanyID, 2026).Return(int64(2), nil)
	m.tx.On("InsertEntry", ctx, mock.MatchedBy(func(e domain.JournalEntry) bool {
		return e.Status == domain.EntryPosted &&
			e.EntryNumber == "JE-2026-000002" &&
			e.ReversesEntryID != nil && *e.ReversesEntryID == "entry-1" &&
			e.Memo == "Reversal of JE-2026-000001"
	})).Return(nil)
	m.tx.On("InsertLines", ctx, mock.MatchedBy(func(lines []domain.JournalLine) bool {
		if len(lines) != 2 {
			return false
		}
		// The cash debit becomes a credit and vice versa.
		return lines[0].AccountID == "acc-cash" && lines[0].Credit.Equal(dec("150.00")) && lines[0].Debit.IsZero() &&
			lines[1].AccountID == "acc-revenue" && lines[1].Debit.Equal(dec("150.00"))
	})).Return(nil)
	m.tx.On("SetReversedBy", ctx, "entry-1", mock.AnythingOfType("string"), testActorID, mock.AnythingOfType("time.Time")).Return(nil)
	m.tx.On("ApplyBalanceDeltas", ctx, testCompanyID, "period-3",
		mock.MatchedBy(func(deltas map[string]portsrepo.BalanceDelta) bool {
			return deltas["acc-cash"].Credit.Equal(dec("150.00")) && deltas["acc-revenue"].Debit.Equal(dec("150.00"))
		}),
		testActorID, mock.AnythingOfType("time.Time")).Return(nil)

	reversal, err := svc.ReverseEntry(ctx, testCompanyID, "entry-1", testActorID)

	assert.NoError(t, err)
	assert.NotEqual(t, "entry-1", reversal.EntryID)
	assert.Equal(t, domain.EntryPosted, reversal.Status)
	assert.Equal(t, "JE-2026-000002", reversal.EntryNumber)
	assert.Len(t, reversal.Lines, 2)
	m.tx.AssertExpectations(t)
}

func TestReverseEntry_AlreadyReversed(t *testing.T) {
	svc, m := newJournalService()
	ctx := context.Background()

	entry := postedEntry()
	reversalID := "entry-2"
	entry.ReversedByEntryID = &reversalID

	m.repo.On("WithTx", ctx).Return(nil)
	m.tx.On("GetEntryForUpdate", ctx, "entry-1").Return(entry, nil)

	_, err := svc.ReverseEntry(ctx, testCompanyID, "entry-1", testActorID)

	assert.ErrorIs(t, err, services.ErrEntryReversed)
	m.tx.AssertNotCalled(t, "InsertEntry", mock.Anything, mock.Anything)
}

func TestCanPost(t *testing.T) {
	t.Run("satisfied preconditions", func(t *testing.T) {
		svc, m := newJournalService()
		ctx := context.Background()

		m.repo.On("FindEntryByID", ctx, "entry-1").Return(draftEntry(), nil)
		m.repo.On("FindLinesByEntryID", ctx, "entry-1").Return(balancedLines(), nil)
		m.fiscal.On("GetPeriod", ctx, testCompanyID, "period-3").Return(openPeriod(), nil)
		accounts := postableAccounts()
		cash := accounts["acc-cash"]
		revenue := accounts["acc-revenue"]
		m.account.On("GetAccountByID", ctx, testCompanyID, "acc-cash").Return(&cash, nil)
		m.account.On("GetAccountByID", ctx, testCompanyID, "acc-revenue").Return(&revenue, nil)

		ok, err := svc.CanPost(ctx, testCompanyID, "entry-1")
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("unbalanced reads false without error", func(t *testing.T) {
		svc, m := newJournalService()
		ctx := context.Background()

		lines := balancedLines()
		lines[1].Credit = dec("100.00")

		m.repo.On("FindEntryByID", ctx, "entry-1").Return(draftEntry(), nil)
		m.repo.On("FindLinesByEntryID", ctx, "entry-1").Return(lines, nil)
		m.fiscal.On("GetPeriod", ctx, testCompanyID, "period-3").Return(openPeriod(), nil)
		accounts := postableAccounts()
		cash := accounts["acc-cash"]
		revenue := accounts["acc-revenue"]
		m.account.On("GetAccountByID", ctx, testCompanyID, "acc-cash").Return(&cash, nil)
		m.account.On("GetAccountByID", ctx, testCompanyID, "acc-revenue").Return(&revenue, nil)

		ok, err := svc.CanPost(ctx, testCompanyID, "entry-1")
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestCanVoid(t *testing.T) {
	t.Run("posted in open period", func(t *testing.T) {
		svc, m := newJournalService()
		ctx := context.Background()

		m.repo.On("FindEntryByID", ctx, "entry-1").Return(postedEntry(), nil)
		m.fiscal.On("GetPeriod", ctx, testCompanyID, "period-3").Return(openPeriod(), nil)

		ok, err := svc.CanVoid(ctx, testCompanyID, "entry-1")
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("draft cannot be voided", func(t *testing.T) {
		svc, m := newJournalService()
		ctx := context.Background()

		m.repo.On("FindEntryByID", ctx, "entry-1").Return(draftEntry(), nil)

		ok, err := svc.CanVoid(ctx, testCompanyID, "entry-1")
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("closed period blocks voiding", func(t *testing.T) {
		svc, m := newJournalService()
		ctx := context.Background()

		closed := openPeriod()
		closed.Status = domain.PeriodClosed
		m.repo.On("FindEntryByID", ctx, "entry-1").Return(postedEntry(), nil)
		m.fiscal.On("GetPeriod", ctx, testCompanyID, "period-3").Return(closed, nil)

		ok, err := svc.CanVoid(ctx, testCompanyID, "entry-1")
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestDeleteDraft(t *testing.T) {
	t.Run("removes drafts", func(t *testing.T) {
		svc, m := newJournalService()
		ctx := context.Background()

		m.repo.On("FindEntryByID", ctx, "entry-1").Return(draftEntry(), nil)
		m.repo.On("DeleteDraft", ctx, "entry-1").Return(nil)

		assert.NoError(t, svc.DeleteDraft(ctx, testCompanyID, "entry-1", testActorID))
		m.repo.AssertExpectations(t)
	})

	t.Run("rejects posted entries", func(t *testing.T) {
		svc, m := newJournalService()
		ctx := context.Background()

		m.repo.On("FindEntryByID", ctx, "entry-1").Return(postedEntry(), nil)

		err := svc.DeleteDraft(ctx, testCompanyID, "entry-1", testActorID)
		assert.ErrorIs(t, err, services.ErrEntryNotDraft)
		m.repo.AssertNotCalled(t, "DeleteDraft", mock.Anything, mock.Anything)
	})
}
