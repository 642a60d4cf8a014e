package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/nicolasgrk/gestion-budget-ia/internal/apperrors"
	"github.com/nicolasgrk/gestion-budget-ia/internal/core/ports"
	portssvc "github.com/nicolasgrk/gestion-budget-ia/internal/core/ports/services"
	"github.com/nicolasgrk/gestion-budget-ia/internal/dto"
	"github.com/nicolasgrk/gestion-budget-ia/internal/models"
)

// categoryService exposes the category taxonomy grouped by parent.
type categoryService struct {
	BaseService
	categoryRepo ports.CategoryRepository
}

func NewCategoryService(categoryRepo ports.CategoryRepository) portssvc.CategorySvcFacade {
	return &categoryService{categoryRepo: categoryRepo}
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

// ListCategoryGroups returns every known parent category with its
// sub-categories. Parents without a stored sub-category still appear so the
// edit dropdowns always offer the full taxonomy.
func (s *categoryService) ListCategoryGroups(ctx context.Context) ([]dto.CategoryGroup, error) {
	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list categories")
		return nil, fmt.Errorf("%w: failed to list categories: %v", apperrors.ErrDataUnavailable, err)
	}

	grouped := make(map[string][]string)
	for _, parent := range models.ParentCategories {
		grouped[parent] = nil
	}
	for _, category := range categories {
		grouped[category.ParentName] = append(grouped[category.ParentName], category.Name)
	}

	parents := make([]string, 0, len(grouped))
	for parent := range grouped {
		parents = append(parents, parent)
	}
	sort.Strings(parents)

	groups := make([]dto.CategoryGroup, 0, len(parents))
	for _, parent := range parents {
		subs := grouped[parent]
		if subs == nil {
			subs = []string{}
		}
		sort.Strings(subs)
		groups = append(groups, dto.CategoryGroup{
			Parent:        parent,
			SubCategories: subs,
		})
	}
	return groups, nil
}
