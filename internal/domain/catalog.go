package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Category struct {
	ID          string      `json:"id" gorm:"primaryKey;size:36"`
	Name        string      `json:"name" gorm:"size:100;not null"`
	Slug        string      `json:"slug" gorm:"uniqueIndex;size:120;not null"`
	Description string      `json:"description,omitempty" gorm:"type:text"`
	ImageURL    string      `json:"imageUrl,omitempty" gorm:"size:255"`
	ParentID    *string     `json:"parentId" gorm:"size:36;index"`
	Children    []*Category `json:"children,omitempty" gorm:"-"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// BuildCategoryTree nests a flat category list under their parents. Categories
// whose parent is not in the list are returned as roots. Siblings are sorted
// by name.
func BuildCategoryTree(flat []Category) []*Category {
	nodes := make(map[string]*Category, len(flat))
	for i := range flat {
		c := flat[i]
		c.Children = nil
		nodes[c.ID] = &c
	}

	var roots []*Category
	for i := range flat {
		node := nodes[flat[i].ID]
		if node.ParentID != nil {
			if parent, ok := nodes[*node.ParentID]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	sortCategories(roots)
	return roots
}

func sortCategories(list []*Category) {
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	for _, c := range list {
		sortCategories(c.Children)
	}
}

// WouldCreateCycle reports whether re-parenting category id under parentID
// makes the category its own ancestor.
func WouldCreateCycle(all []Category, id, parentID string) bool {
	parents := make(map[string]string, len(all))
	for _, c := range all {
		if c.ParentID != nil {
			parents[c.ID] = *c.ParentID
		}
	}

	seen := make(map[string]bool)
	for cur := parentID; cur != ""; cur = parents[cur] {
		if cur == id {
			return true
		}
		if seen[cur] {
			// existing data already loops; refuse to extend it
			return true
		}
		seen[cur] = true
	}
	return false
}

type Product struct {
	ID           string                      `json:"id" gorm:"primaryKey;size:36"`
	Name         string                      `json:"name" gorm:"size:255;not null"`
	Slug         string                      `json:"slug" gorm:"uniqueIndex;size:255;not null"`
	Description  string                      `json:"description" gorm:"type:text"`
	SKU          string                      `json:"sku,omitempty" gorm:"size:100"`
	Brand        string                      `json:"brand,omitempty" gorm:"size:100;index"`
	Price        decimal.Decimal             `json:"price" gorm:"type:decimal(16,2);not null"`
	ComparePrice *decimal.Decimal            `json:"comparePrice,omitempty" gorm:"type:decimal(16,2)"`
	Stock        int                         `json:"stock" gorm:"not null"`
	Images       datatypes.JSONSlice[string] `json:"images"`
	IsActive     bool                        `json:"isActive" gorm:"not null;index"`
	IsFeatured   bool                        `json:"isFeatured" gorm:"not null"`
	CategoryID   string                      `json:"categoryId" gorm:"size:36;not null;index"`
	Category     *Category                   `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	CreatedAt    time.Time                   `json:"createdAt"`
	UpdatedAt    time.Time                   `json:"updatedAt"`
}

func (p *Product) InStock() bool {
	return p.Stock > 0
}

// ProductFilter narrows public product listings. Inactive products are always
// excluded unless IncludeInactive is set by an admin caller.
type ProductFilter struct {
	CategoryID      string
	Search          string
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	FeaturedOnly    bool
	IncludeInactive bool
	Sort            string
}

const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortName      = "name"
)

// ProductDetail is the public product page: the product, its approved
// reviews and a handful of related products.
type ProductDetail struct {
	Product       *Product  `json:"product"`
	Reviews       []Review  `json:"reviews"`
	AverageRating float64   `json:"averageRating"`
	ReviewCount   int       `json:"reviewCount"`
	Related       []Product `json:"related"`
}

