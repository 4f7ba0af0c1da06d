package seller

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"stockkeeper/internal/ledger"
	ledgerrepo "stockkeeper/internal/ledger/repository"
	"stockkeeper/internal/seller/repository"
	"stockkeeper/internal/store"
)

func NewModule(db *sqlx.DB, runner store.TxRunner, logger *zap.Logger) *Controller {
	repo := repository.NewMySQLSellerRepository(db)
	stock := ledger.New(ledgerrepo.NewMySQLSellerStockRepository(db))
	return NewController(NewService(runner, repo, stock, logger), logger)
}
