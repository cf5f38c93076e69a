package service

import (
	"context"
	"errors"
	"time"

	"github.com/calzado-next/internal/logger"

	"gorm.io/gorm"
)

const defaultTxTimeout = 5 * time.Second

// TxRunner 事务边界：统一超时、回滚与失败日志。领域代码只返回错误，不在事务内打日志。
type TxRunner struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewTxRunner 创建事务执行器
func NewTxRunner(db *gorm.DB, timeout time.Duration) *TxRunner {
	if timeout <= 0 {
		timeout = defaultTxTimeout
	}
	return &TxRunner{db: db, timeout: timeout}
}

// Bound 为事务外的单次查询附加同样的超时，调用方负责 cancel。nil 时使用默认超时
func (r *TxRunner) Bound(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := defaultTxTimeout
	if r != nil {
		timeout = r.timeout
	}
	return context.WithTimeout(ctx, timeout)
}

// Run 在事务中执行 fn。fn 返回错误或 ctx 超时/取消时整体回滚。
// 领域错误原样返回；其它错误包装为可重试的 ErrInternal。
func (r *TxRunner) Run(ctx context.Context, op string, fn func(ctx context.Context, tx *gorm.DB) error) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	started := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, tx)
	})
	if err == nil {
		return nil
	}

	if isDomainError(err) {
		logger.Infow("tx_rejected",
			"op", op,
			"error", err,
			"elapsed", time.Since(started),
		)
		return err
	}

	logger.Errorw("tx_failed",
		"op", op,
		"error", err,
		"timeout", errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded),
		"canceled", errors.Is(err, context.Canceled),
		"elapsed", time.Since(started),
	)
	if errors.Is(err, ErrInternal) {
		return err
	}
	return internalError(op, err)
}

func isDomainError(err error) bool {
	for _, target := range []error{
		ErrValidation,
		ErrNotFound,
		ErrConflict,
		ErrForbidden,
		ErrInsufficientStock,
		ErrStockChanged,
		ErrCartInvalid,
		ErrOrderStatusTerminal,
		ErrOrderCancelNotAllowed,
		ErrInvalidCredentials,
		ErrUserDisabled,
		ErrTokenInvalid,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
