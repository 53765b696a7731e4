package services

import (
	portsrepo "github.com/corebooks/corebooks_backend/internal/core/ports/repositories"
	portssvc "github.com/corebooks/corebooks_backend/internal/core/ports/services"
)

// Container holds all the services and manages their dependencies.
type Container struct {
	Account        portssvc.AccountSvcFacade
	Fiscal         portssvc.FiscalSvcFacade
	Journal        portssvc.JournalSvcFacade
	Balance        portssvc.BalanceSvcFacade
	Inventory      portssvc.InventorySvcFacade
	DocumentBridge portssvc.DocumentBridgeSvcFacade
}

// NewContainer wires the service graph from the repository provider.
// Account and fiscal services come first since the journal engine
// validates against both.
func NewContainer(repos *portsrepo.RepositoryProvider) *Container {
	container := &Container{}

	container.Account = NewAccountService(repos.AccountRepo)
	container.Fiscal = NewFiscalService(repos.FiscalRepo)
	container.Journal = NewJournalService(repos.JournalRepo, container.Fiscal, container.Account)
	container.Balance = NewBalanceService(repos.BalanceRepo, container.Fiscal)
	container.Inventory = NewInventoryService(repos.InventoryRepo)
	container.DocumentBridge = NewDocumentBridgeService(container.Journal)

	return container
}
