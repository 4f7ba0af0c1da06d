package product

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"stockkeeper/internal/product/repository"
	"stockkeeper/internal/store"
)

func NewModule(db *sqlx.DB, runner store.TxRunner, logger *zap.Logger) *Controller {
	repo := repository.NewMySQLRepository(db)
	categories := repository.NewMySQLCategoryRepository(db)
	svc := NewService(runner, repo, categories, logger)
	return NewController(svc, logger)
}
