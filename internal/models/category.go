package models

import "strings"

type CategoryKey string

const (
	CategoryFood          CategoryKey = "food"
	CategoryTransport     CategoryKey = "transport"
	CategoryShopping      CategoryKey = "shopping"
	CategoryBills         CategoryKey = "bills"
	CategoryRent          CategoryKey = "rent"
	CategoryHealth        CategoryKey = "health"
	CategoryEducation     CategoryKey = "education"
	CategoryEntertainment CategoryKey = "entertainment"
	CategoryTravel        CategoryKey = "travel"
	CategorySalary        CategoryKey = "salary"
	CategoryFreelance     CategoryKey = "freelance"
	CategoryInvestment    CategoryKey = "investment"
	CategoryGift          CategoryKey = "gift"
	// CategoryOther сюда сворачиваются пустые и неизвестные ключи
	CategoryOther CategoryKey = "other"
)

type Category struct {
	Key   CategoryKey      `json:"key"`
	Label string           `json:"label"`
	Color string           `json:"color"`
	Icon  string           `json:"icon"`
	Type  *TransactionType `json:"type,omitempty"` // nil если категория подходит для обоих типов
}

var (
	incomeType  = TransactionTypeIncome
	expenseType = TransactionTypeExpense
)

// дефолтные системные категории, порядок = порядок отображения
var DefaultCategories = []Category{
	{Key: CategoryFood, Label: "خوراک", Color: "#FF5722", Icon: "🛒", Type: &expenseType},
	{Key: CategoryTransport, Label: "حمل و نقل", Color: "#FFC107", Icon: "🚗", Type: &expenseType},
	{Key: CategoryShopping, Label: "خرید", Color: "#673AB7", Icon: "🛍️", Type: &expenseType},
	{Key: CategoryBills, Label: "قبوض", Color: "#607D8B", Icon: "💡", Type: &expenseType},
	{Key: CategoryRent, Label: "اجاره", Color: "#795548", Icon: "🏠", Type: &expenseType},
	{Key: CategoryHealth, Label: "سلامت", Color: "#E91E63", Icon: "🏥", Type: &expenseType},
	{Key: CategoryEducation, Label: "آموزش", Color: "#3F51B5", Icon: "📚", Type: &expenseType},
	{Key: CategoryEntertainment, Label: "تفریح", Color: "#9C27B0", Icon: "🎬", Type: &expenseType},
	{Key: CategoryTravel, Label: "سفر", Color: "#2196F3", Icon: "✈️", Type: &expenseType},
	{Key: CategorySalary, Label: "حقوق", Color: "#4CAF50", Icon: "💵", Type: &incomeType},
	{Key: CategoryFreelance, Label: "پروژه آزاد", Color: "#8BC34A", Icon: "💻", Type: &incomeType},
	{Key: CategoryInvestment, Label: "سرمایه‌گذاری", Color: "#009688", Icon: "📈", Type: &incomeType},
	{Key: CategoryGift, Label: "هدیه", Color: "#03A9F4", Icon: "🎁"},
	{Key: CategoryOther, Label: "سایر", Color: "#9E9E9E", Icon: "📋"},
}

var categoryIndex = func() map[CategoryKey]Category {
	idx := make(map[CategoryKey]Category, len(DefaultCategories))
	for _, c := range DefaultCategories {
		idx[c.Key] = c
	}
	return idx
}()

// NormalizeCategory приводит строку с транзакции к известному ключу, иначе CategoryOther
func NormalizeCategory(raw string) CategoryKey {
	key := CategoryKey(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := categoryIndex[key]; ok {
		return key
	}
	return CategoryOther
}

// LookupCategory метаданные для отображения, неизвестный ключ дает "سایر"
func LookupCategory(raw string) Category {
	return categoryIndex[NormalizeCategory(raw)]
}
