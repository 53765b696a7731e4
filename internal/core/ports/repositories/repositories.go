package repositories

// RepositoryProvider groups the concrete repositories handed to the service
// container. The pgsql package builds one from a connection pool.
type RepositoryProvider struct {
	AccountRepo   AccountRepositoryFacade
	FiscalRepo    FiscalRepositoryFacade
	JournalRepo   JournalRepositoryFacade
	BalanceRepo   BalanceRepositoryFacade
	InventoryRepo InventoryRepositoryFacade
}
