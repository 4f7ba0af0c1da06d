package sale

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"stockkeeper/internal/assignment"
	assignmentrepo "stockkeeper/internal/assignment/repository"
	"stockkeeper/internal/ledger"
	ledgerrepo "stockkeeper/internal/ledger/repository"
	productrepo "stockkeeper/internal/product/repository"
	salerepo "stockkeeper/internal/sale/repository"
	sellerrepo "stockkeeper/internal/seller/repository"
	"stockkeeper/internal/store"
)

func NewModule(db *sqlx.DB, runner store.TxRunner, logger *zap.Logger) *Controller {
	engine := NewEngine(
		runner,
		ledger.New(ledgerrepo.NewMySQLSellerStockRepository(db)),
		assignment.NewManager(assignmentrepo.NewMySQLAssignmentRepository(db)),
		productrepo.NewMySQLRepository(db),
		sellerrepo.NewMySQLSellerRepository(db),
		salerepo.NewMySQLSaleRepository(db),
		logger,
	)
	return NewController(engine, logger)
}
