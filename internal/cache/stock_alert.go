package cache

import (
	"context"
	"fmt"
	"time"
)

// lowStockAlertKey 有尺码时带 "s=" 前缀，与无尺码的 "none" 不会冲突
func lowStockAlertKey(productID uint, size string) string {
	if size == "" {
		return fmt.Sprintf("stock:low:%d:none", productID)
	}
	return fmt.Sprintf("stock:low:%d:s=%s", productID, size)
}

// MarkLowStockAlert 记录低库存告警，TTL 内重复告警返回 false
func (s *Store) MarkLowStockAlert(ctx context.Context, productID uint, size string, quantity int, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return s.SetNX(ctx, lowStockAlertKey(productID, size), quantity, ttl)
}

// ClearLowStockAlert 补货后清除告警标记
func (s *Store) ClearLowStockAlert(ctx context.Context, productID uint, size string) error {
	return s.Del(ctx, lowStockAlertKey(productID, size))
}
