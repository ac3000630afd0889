package repo

import (
	"context"

	"github.com/Skotchmaster/storefront/internal/models"
)

type Stats struct {
	Users          int64            `json:"users"`
	Products       int64            `json:"products"`
	Categories     int64            `json:"categories"`
	Orders         int64            `json:"orders"`
	OrdersByStatus map[string]int64 `json:"orders_by_status"`
	Revenue        int64            `json:"revenue"`
	GuestMessages  int64            `json:"guest_messages"`
	UnreadMessages int64            `json:"unread_messages"`
}

func (r *GormRepo) Stats(ctx context.Context) (*Stats, error) {
	db := r.DB.WithContext(ctx)
	s := &Stats{OrdersByStatus: make(map[string]int64, len(models.OrderStatuses))}

	counts := []struct {
		model any
		dst   *int64
	}{
		{&models.User{}, &s.Users},
		{&models.Product{}, &s.Products},
		{&models.Category{}, &s.Categories},
		{&models.Order{}, &s.Orders},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	var rows []struct {
		Status string
		N      int64
	}
	if err := db.Model(&models.Order{}).Select("status, COUNT(*) AS n").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, st := range models.OrderStatuses {
		s.OrdersByStatus[st] = 0
	}
	for _, row := range rows {
		s.OrdersByStatus[row.Status] = row.N
	}

	if err := db.Model(&models.Order{}).
		Where("status IN ?", models.RevenueStatuses).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&s.Revenue).Error; err != nil {
		return nil, err
	}

	total, unread, err := r.GuestMessageCounts(ctx)
	if err != nil {
		return nil, err
	}
	s.GuestMessages, s.UnreadMessages = total, unread
	return s, nil
}
