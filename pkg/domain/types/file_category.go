package types

import "fmt"

// FileCategory is a coarse class of accepted upload content
type FileCategory string

const (
	FileCategoryImage    FileCategory = "image"
	FileCategoryDocument FileCategory = "document"
	FileCategoryOther    FileCategory = "other"
)

// AllFileCategories returns all valid file categories
func AllFileCategories() []FileCategory {
	return []FileCategory{
		FileCategoryImage,
		FileCategoryDocument,
		FileCategoryOther,
	}
}

// IsValid checks if the file category is valid
func (c FileCategory) IsValid() bool {
	switch c {
	case FileCategoryImage,
		FileCategoryDocument,
		FileCategoryOther:
		return true
	default:
		return false
	}
}

// String returns the string representation of the file category
func (c FileCategory) String() string {
	return string(c)
}

// ParseFileCategory parses a string into a FileCategory
func ParseFileCategory(s string) (FileCategory, error) {
	c := FileCategory(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid file category: %s", s)
	}
	return c, nil
}
