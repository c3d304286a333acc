package services

import (
	portsrepo "github.com/posys/pos_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/posys/pos_ledger_app/internal/core/ports/services"
	"github.com/posys/pos_ledger_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, dispatcher portssvc.NotificationDispatcher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)

	// Balance first: the debtor service reads balances through it.
	container.Balance = NewBalanceService(repos.UserRepo, repos.TxnRepo, repos.TransferRepo)

	debtor := NewDebtorService(
		repos.UserRepo,
		repos.FineRepo,
		repos.TransferRepo,
		container.Balance,
		dispatcher,
		cfg.FineSchedule(),
		cfg.NotifiableUserTypes(),
	)
	container.Debtor = debtor
	if !cfg.DisableDebtNotifier {
		container.DebtNotifier = debtor
	}

	container.Transaction = NewTransactionService(
		repos.TxnRepo,
		repos.UserRepo,
		container.DebtNotifier,
		cfg.Currency,
		cfg.CurrencyPrecision,
	)
	container.Transfer = NewTransferService(repos.TransferRepo, repos.UserRepo)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.UserSvcFacade     = (*userService)(nil)
	_ portssvc.BalanceSvcFacade  = (*balanceService)(nil)
	_ portssvc.TransferSvcFacade = (*transferService)(nil)
)
