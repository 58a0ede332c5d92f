package models

import "time"

// City is a top-level location grouping. Owns a collection of districts.
type City struct {
	ID              int64      `db:"id" json:"id"`
	Name            string     `db:"name" json:"name"`
	DatetimeCreated time.Time  `db:"datetime_created" json:"datetime_created"`
	DatetimeUpdated time.Time  `db:"datetime_updated" json:"-"`
	DatetimeDeleted *time.Time `db:"datetime_deleted" json:"-"`
}

// IsDeleted reports whether the city is soft-deleted.
func (c *City) IsDeleted() bool {
	return c.DatetimeDeleted != nil
}

// District belongs to exactly one city. Unique per (name, city) pair.
type District struct {
	ID              int64      `db:"id" json:"id"`
	Name            string     `db:"name" json:"name"`
	CityID          int64      `db:"city_id" json:"-"`
	City            *City      `json:"city,omitempty"`
	DatetimeCreated time.Time  `db:"datetime_created" json:"datetime_created"`
	DatetimeUpdated time.Time  `db:"datetime_updated" json:"-"`
	DatetimeDeleted *time.Time `db:"datetime_deleted" json:"-"`
}

// IsDeleted reports whether the district is soft-deleted.
func (d *District) IsDeleted() bool {
	return d.DatetimeDeleted != nil
}
