package service

import (
	"context"
	"strings"

	"github.com/calzado-next/internal/cache"
	"github.com/calzado-next/internal/constants"
	"github.com/calzado-next/internal/logger"
	"github.com/calzado-next/internal/models"
	"github.com/calzado-next/internal/repository"

	"gorm.io/gorm"
)

// UserAdminService 后台用户管理
type UserAdminService struct {
	tx       *TxRunner
	userRepo repository.UserRepository
	cartRepo repository.CartRepository
	cache    *cache.Store
}

// NewUserAdminService 创建后台用户管理服务
func NewUserAdminService(tx *TxRunner, userRepo repository.UserRepository, cartRepo repository.CartRepository, store *cache.Store) *UserAdminService {
	return &UserAdminService{
		tx:       tx,
		userRepo: userRepo,
		cartRepo: cartRepo,
		cache:    store,
	}
}

// UserListInput 用户列表查询
type UserListInput struct {
	Page     int
	PageSize int
	Keyword  string
	Status   string
	IsAdmin  *bool
}

// UserUpdateInput 管理员更新用户
type UserUpdateInput struct {
	IsAdmin *bool
	Status  *string
}

// List 用户列表
func (s *UserAdminService) List(ctx context.Context, input UserListInput) ([]models.User, int64, error) {
	users, total, err := s.userRepo.List(ctx, repository.UserListFilter{
		Page:     input.Page,
		PageSize: input.PageSize,
		Keyword:  input.Keyword,
		Status:   strings.ToLower(strings.TrimSpace(input.Status)),
		IsAdmin:  input.IsAdmin,
	})
	if err != nil {
		return nil, 0, internalError("user_list", err)
	}
	return users, total, nil
}

// Get 获取用户
func (s *UserAdminService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, internalError("user_get", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Update 修改管理员标记或账号状态；权限变化会使该用户已签发的 token 失效
func (s *UserAdminService) Update(ctx context.Context, operatorID, id uint, input UserUpdateInput) (*models.User, error) {
	if operatorID == id {
		return nil, ErrCannotModifySelf
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := false
	if input.IsAdmin != nil && *input.IsAdmin != user.IsAdmin {
		user.IsAdmin = *input.IsAdmin
		changed = true
	}
	if input.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*input.Status))
		if status != constants.UserStatusActive && status != constants.UserStatusDisabled {
			return nil, ErrValidation
		}
		if status != user.Status {
			user.Status = status
			changed = true
		}
	}
	if !changed {
		return user, nil
	}

	user.TokenVersion++
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, internalError("user_update", err)
	}
	s.dropAuthState(ctx, user.ID)
	logger.Infow("admin_user_updated",
		"operator_id", operatorID,
		"user_id", user.ID,
		"is_admin", user.IsAdmin,
		"status", user.Status,
	)
	return user, nil
}

// Delete 删除用户及其购物车；历史订单保留
func (s *UserAdminService) Delete(ctx context.Context, operatorID, id uint) error {
	if operatorID == id {
		return ErrCannotModifySelf
	}
	err := s.tx.Run(ctx, "user_delete", func(ctx context.Context, tx *gorm.DB) error {
		if err := s.cartRepo.WithTx(tx).ClearByUser(ctx, id); err != nil {
			return err
		}
		affected, err := s.userRepo.WithTx(tx).Delete(ctx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.dropAuthState(ctx, id)
	logger.Infow("admin_user_deleted", "operator_id", operatorID, "user_id", id)
	return nil
}

func (s *UserAdminService) dropAuthState(ctx context.Context, userID uint) {
	if err := s.cache.DelUserAuthState(ctx, userID); err != nil {
		logger.Warnw("auth_state_cache_del_failed", "user_id", userID, "error", err)
	}
}
