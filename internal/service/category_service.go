package service

import (
	"github.com/alligatorO15/jalali-finance/internal/models"
)

// CategoryService справочник категорий. Таблица статическая, пользователи ее не редактируют
type CategoryService interface {
	List(typ *models.TransactionType) ([]models.Category, error)
	Get(key string) models.Category
}

type categoryService struct{}

func NewCategoryService() CategoryService {
	return &categoryService{}
}

// List категории, подходящие для типа; nil = все. Общие категории (без типа) входят всегда
func (s *categoryService) List(typ *models.TransactionType) ([]models.Category, error) {
	if typ == nil {
		return append([]models.Category(nil), models.DefaultCategories...), nil
	}
	if !typ.IsValid() {
		return nil, ErrInvalidTransactionType
	}

	var result []models.Category
	for _, c := range models.DefaultCategories {
		if c.Type == nil || *c.Type == *typ {
			result = append(result, c)
		}
	}
	return result, nil
}

func (s *categoryService) Get(key string) models.Category {
	return models.LookupCategory(key)
}
