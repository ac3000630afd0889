package service

import (
	"context"

	"github.com/Skotchmaster/storefront/internal/repo"
)

type StatsService struct {
	Repo *repo.GormRepo
}

func (s *StatsService) Overview(ctx context.Context) (*repo.Stats, error) {
	return s.Repo.Stats(ctx)
}
