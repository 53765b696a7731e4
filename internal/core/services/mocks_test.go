package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/corebooks/corebooks_backend/internal/core/domain"
	portsrepo "github.com/corebooks/corebooks_backend/internal/core/ports/repositories"
	portssvc "github.com/corebooks/corebooks_backend/internal/core/ports/services"
	"github.com/corebooks/corebooks_backend/internal/dto"
)

// --- Account repository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, companyID string, code string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, companyID string, includeInactive bool) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) CountJournalLines(ctx context.Context, accountID string) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) HasChildren(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, actorID string, now time.Time) error {
	args := m.Called(ctx, accountID, actorID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// --- Fiscal repository ---

type MockFiscalRepository struct {
	mock.Mock
}

var _ portsrepo.FiscalRepositoryFacade = (*MockFiscalRepository)(nil)

func (m *MockFiscalRepository) FindYearByID(ctx context.Context, yearID string) (*domain.FiscalYear, error) {
	args := m.Called(ctx, yearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalRepository) ListYears(ctx context.Context, companyID string) ([]domain.FiscalYear, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalRepository) YearOverlaps(ctx context.Context, companyID string, start, end time.Time, excludeYearID string) (bool, error) {
	args := m.Called(ctx, companyID, start, end, excludeYearID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFiscalRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalRepository) ListPeriodsByYear(ctx context.Context, yearID string) ([]domain.FiscalPeriod, error) {
	args := m.Called(ctx, yearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalRepository) FindPeriodForDate(ctx context.Context, companyID string, date time.Time) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, companyID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalRepository) SaveYearWithPeriods(ctx context.Context, year domain.FiscalYear, periods []domain.FiscalPeriod) error {
	args := m.Called(ctx, year, periods)
	return args.Error(0)
}

func (m *MockFiscalRepository) UpdatePeriodStatus(ctx context.Context, periodID string, expected []domain.FiscalPeriodStatus, target domain.FiscalPeriodStatus, actorID string, now time.Time) error {
	args := m.Called(ctx, periodID, expected, target, actorID, now)
	return args.Error(0)
}

func (m *MockFiscalRepository) UpdateYearStatus(ctx context.Context, yearID string, expected []domain.FiscalYearStatus, target domain.FiscalYearStatus, actorID string, now time.Time) error {
	args := m.Called(ctx, yearID, expected, target, actorID, now)
	return args.Error(0)
}

func (m *MockFiscalRepository) LockYearCascade(ctx context.Context, yearID string, actorID string, now time.Time) error {
	args := m.Called(ctx, yearID, actorID, now)
	return args.Error(0)
}

func (m *MockFiscalRepository) SetCurrentYear(ctx context.Context, companyID string, yearID string, actorID string, now time.Time) error {
	args := m.Called(ctx, companyID, yearID, actorID, now)
	return args.Error(0)
}

// --- Journal repository ---

// MockJournalRepository hands its tx field to WithTx callbacks so posting
// transactions can be scripted.
type MockJournalRepository struct {
	mock.Mock
	tx *MockJournalTxRepository
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) FindEntryByReference(ctx context.Context, companyID string, ref domain.DocumentRef) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListEntriesByPeriod(ctx context.Context, companyID string, periodID string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListEntriesByDateRange(ctx context.Context, companyID string, from, to time.Time, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, companyID, from, to, limit, nextToken)
	var entries []domain.JournalEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.JournalEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

func (m *MockJournalRepository) WithTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.JournalTxRepository) error) error {
	args := m.Called(ctx)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx, m.tx)
}

func (m *MockJournalRepository) SaveDraft(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	args := m.Called(ctx, entry, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) UpdateDraft(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	args := m.Called(ctx, entry, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) DeleteDraft(ctx context.Context, entryID string) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

// --- Journal tx repository ---

type MockJournalTxRepository struct {
	mock.Mock
}

var _ portsrepo.JournalTxRepository = (*MockJournalTxRepository)(nil)

func (m *MockJournalTxRepository) GetEntryForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalTxRepository) GetPeriodForUpdate(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockJournalTxRepository) LockAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockJournalTxRepository) AllocateEntryNumber(ctx context.Context, companyID string, year int) (int64, error) {
	args := m.Called(ctx, companyID, year)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJournalTxRepository) MarkPosted(ctx context.Context, entryID string, entryNumber string, actorID string, now time.Time) error {
	args := m.Called(ctx, entryID, entryNumber, actorID, now)
	return args.Error(0)
}

func (m *MockJournalTxRepository) MarkVoided(ctx context.Context, entryID string, actorID string, reason string, now time.Time) error {
	args := m.Called(ctx, entryID, actorID, reason, now)
	return args.Error(0)
}

func (m *MockJournalTxRepository) SetReversedBy(ctx context.Context, entryID string, reversalEntryID string, actorID string, now time.Time) error {
	args := m.Called(ctx, entryID, reversalEntryID, actorID, now)
	return args.Error(0)
}

func (m *MockJournalTxRepository) InsertEntry(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalTxRepository) InsertLines(ctx context.Context, lines []domain.JournalLine) error {
	args := m.Called(ctx, lines)
	return args.Error(0)
}

func (m *MockJournalTxRepository) ApplyBalanceDeltas(ctx context.Context, companyID string, periodID string, deltas map[string]portsrepo.BalanceDelta, actorID string, now time.Time) error {
	args := m.Called(ctx, companyID, periodID, deltas, actorID, now)
	return args.Error(0)
}

// --- Balance repository ---

type MockBalanceRepository struct {
	mock.Mock
}

var _ portsrepo.BalanceRepositoryFacade = (*MockBalanceRepository)(nil)

func (m *MockBalanceRepository) GetBalance(ctx context.Context, accountID string, periodID string) (*domain.AccountBalance, error) {
	args := m.Called(ctx, accountID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountBalance), args.Error(1)
}

func (m *MockBalanceRepository) ListBalancesByPeriod(ctx context.Context, companyID string, periodID string) ([]domain.AccountBalance, error) {
	args := m.Called(ctx, companyID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountBalance), args.Error(1)
}

func (m *MockBalanceRepository) TrialBalance(ctx context.Context, companyID string, periodID string) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, companyID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

func (m *MockBalanceRepository) CarryForward(ctx context.Context, companyID string, fromPeriodID, toPeriodID string, actorID string, now time.Time) (int64, error) {
	args := m.Called(ctx, companyID, fromPeriodID, toPeriodID, actorID, now)
	return args.Get(0).(int64), args.Error(1)
}

// --- Inventory repository ---

type MockInventoryRepository struct {
	mock.Mock
	tx *MockInventoryTxRepository
}

var _ portsrepo.InventoryRepositoryFacade = (*MockInventoryRepository)(nil)

func (m *MockInventoryRepository) GetStock(ctx context.Context, companyID string, productID string) (*domain.InventoryStock, error) {
	args := m.Called(ctx, companyID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryStock), args.Error(1)
}

func (m *MockInventoryRepository) ListMovements(ctx context.Context, companyID string, productID string, limit int, nextToken *string) ([]domain.InventoryMovement, *string, error) {
	args := m.Called(ctx, companyID, productID, limit, nextToken)
	var movements []domain.InventoryMovement
	if args.Get(0) != nil {
		movements = args.Get(0).([]domain.InventoryMovement)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return movements, token, args.Error(2)
}

func (m *MockInventoryRepository) ListInboundMovements(ctx context.Context, companyID string, productID string) ([]domain.InventoryMovement, error) {
	args := m.Called(ctx, companyID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryMovement), args.Error(1)
}

func (m *MockInventoryRepository) TotalOutboundQuantity(ctx context.Context, companyID string, productID string) (decimal.Decimal, error) {
	args := m.Called(ctx, companyID, productID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockInventoryRepository) ListBelowReorderLevel(ctx context.Context, companyID string) ([]domain.InventoryStock, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryStock), args.Error(1)
}

func (m *MockInventoryRepository) WithTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.InventoryTxRepository) error) error {
	args := m.Called(ctx)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx, m.tx)
}

// --- Inventory tx repository ---

type MockInventoryTxRepository struct {
	mock.Mock
}

var _ portsrepo.InventoryTxRepository = (*MockInventoryTxRepository)(nil)

func (m *MockInventoryTxRepository) GetStockForUpdate(ctx context.Context, companyID string, productID string, actorID string) (*domain.InventoryStock, error) {
	args := m.Called(ctx, companyID, productID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryStock), args.Error(1)
}

func (m *MockInventoryTxRepository) SaveStock(ctx context.Context, stock domain.InventoryStock) error {
	args := m.Called(ctx, stock)
	return args.Error(0)
}

func (m *MockInventoryTxRepository) InsertMovement(ctx context.Context, movement domain.InventoryMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

// --- Fiscal reader service ---

type MockFiscalReaderSvc struct {
	mock.Mock
}

var _ portssvc.FiscalReaderSvc = (*MockFiscalReaderSvc)(nil)

func (m *MockFiscalReaderSvc) GetYear(ctx context.Context, companyID string, yearID string) (*domain.FiscalYear, []domain.FiscalPeriod, error) {
	args := m.Called(ctx, companyID, yearID)
	var year *domain.FiscalYear
	if args.Get(0) != nil {
		year = args.Get(0).(*domain.FiscalYear)
	}
	var periods []domain.FiscalPeriod
	if args.Get(1) != nil {
		periods = args.Get(1).([]domain.FiscalPeriod)
	}
	return year, periods, args.Error(2)
}

func (m *MockFiscalReaderSvc) ListYears(ctx context.Context, companyID string) ([]domain.FiscalYear, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalReaderSvc) GetPeriod(ctx context.Context, companyID string, periodID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, companyID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalReaderSvc) FindPeriodForDate(ctx context.Context, companyID string, date time.Time) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, companyID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalReaderSvc) CanClosePeriod(ctx context.Context, companyID string, periodID string) (bool, error) {
	args := m.Called(ctx, companyID, periodID)
	return args.Bool(0), args.Error(1)
}

// --- Account reader service ---

type MockAccountReaderSvc struct {
	mock.Mock
}

var _ portssvc.AccountReaderSvc = (*MockAccountReaderSvc)(nil)

func (m *MockAccountReaderSvc) GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountReaderSvc) GetAccountByCode(ctx context.Context, companyID string, code string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountReaderSvc) ListAccounts(ctx context.Context, companyID string, includeInactive bool) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountReaderSvc) GetAccountTree(ctx context.Context, companyID string, rootID string) ([]*domain.AccountNode, error) {
	args := m.Called(ctx, companyID, rootID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AccountNode), args.Error(1)
}

func (m *MockAccountReaderSvc) GetAncestors(ctx context.Context, companyID string, accountID string) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountReaderSvc) GetDescendants(ctx context.Context, companyID string, accountID string) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountReaderSvc) CanDeleteAccount(ctx context.Context, companyID string, accountID string) (bool, error) {
	args := m.Called(ctx, companyID, accountID)
	return args.Bool(0), args.Error(1)
}

// --- Journal service facade ---

type MockJournalService struct {
	mock.Mock
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

func (m *MockJournalService) GetEntry(ctx context.Context, companyID string, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) FindByReference(ctx context.Context, companyID string, ref domain.DocumentRef) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) ListEntries(ctx context.Context, companyID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	args := m.Called(ctx, companyID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListJournalEntriesResponse), args.Error(1)
}

func (m *MockJournalService) CanPost(ctx context.Context, companyID string, entryID string) (bool, error) {
	args := m.Called(ctx, companyID, entryID)
	return args.Bool(0), args.Error(1)
}

func (m *MockJournalService) CanVoid(ctx context.Context, companyID string, entryID string) (bool, error) {
	args := m.Called(ctx, companyID, entryID)
	return args.Bool(0), args.Error(1)
}

func (m *MockJournalService) CreateDraft(ctx context.Context, companyID string, req dto.CreateJournalEntryRequest, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) UpdateDraft(ctx context.Context, companyID string, entryID string, req dto.UpdateJournalEntryRequest, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) DeleteDraft(ctx context.Context, companyID string, entryID string, actorID string) error {
	args := m.Called(ctx, companyID, entryID, actorID)
	return args.Error(0)
}

func (m *MockJournalService) PostEntry(ctx context.Context, companyID string, entryID string, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) VoidEntry(ctx context.Context, companyID string, entryID string, reason string, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, reason, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) ReverseEntry(ctx context.Context, companyID string, entryID string, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
