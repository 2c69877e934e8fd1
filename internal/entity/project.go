package entity

// DefaultProjectColor is used for projects created without an explicit color
// and for hours logged outside of any project.
const DefaultProjectColor = "#ebedf0"

type Project struct {
	Base
	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	Name  string
	Color string `gorm:"default:#ebedf0"`
}
