package entity

// Badge rows are level definitions seeded by migration: one row per badge
// name per level, Value being the metric threshold of that level.
type Badge struct {
	Base
	Name        string `gorm:"index:idx_badges_name_level,unique"`
	Level       int    `gorm:"index:idx_badges_name_level,unique"`
	Value       int
	Description string
}
