// Package service holds the business rules between transport and storage.
package service

import (
	"context"
	"iter"

	"knitting-catalog-service/internal/domain"
	"knitting-catalog-service/internal/store"
)

// DesignService serves the design catalog to the transports.
type DesignService struct {
	repo store.DesignStorer
}

func NewDesignService(repo store.DesignStorer) *DesignService {
	return &DesignService{repo: repo}
}

// GetAll lists every design exactly as the repository yields it.
func (s *DesignService) GetAll(ctx context.Context) iter.Seq2[domain.Design, error] {
	return s.repo.GetAll(ctx)
}
