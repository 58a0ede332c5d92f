package models

import "time"

// Category is the top level of the two-level hobby taxonomy.
type Category struct {
	ID              int64      `db:"id" json:"id"`
	Name            string     `db:"name" json:"name"`
	DatetimeCreated time.Time  `db:"datetime_created" json:"datetime_created"`
	DatetimeUpdated time.Time  `db:"datetime_updated" json:"-"`
	DatetimeDeleted *time.Time `db:"datetime_deleted" json:"-"`
}

// IsDeleted reports whether the category is soft-deleted.
func (c *Category) IsDeleted() bool {
	return c.DatetimeDeleted != nil
}

// SubCategory belongs to exactly one category.
type SubCategory struct {
	ID              int64      `db:"id" json:"id"`
	Name            string     `db:"name" json:"name"`
	CategoryID      int64      `db:"category_id" json:"category_id"`
	DatetimeCreated time.Time  `db:"datetime_created" json:"datetime_created"`
	DatetimeUpdated time.Time  `db:"datetime_updated" json:"-"`
	DatetimeDeleted *time.Time `db:"datetime_deleted" json:"-"`
}

// IsDeleted reports whether the subcategory is soft-deleted.
func (s *SubCategory) IsDeleted() bool {
	return s.DatetimeDeleted != nil
}
