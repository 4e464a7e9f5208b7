package conversion

import (
	"time"

	"convert-files-go/internal/domain/priority"
)

type FieldType string

const (
	FieldTypeText   FieldType = "text"
	FieldTypeNumber FieldType = "number"
	FieldTypeDate   FieldType = "date"
	FieldTypeChoice FieldType = "choice"
)

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ConvertFile is a rename definition; its properties share one priority
// sequence.
type ConvertFile struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Title       string    `gorm:"not null"`
	Separator   string    `gorm:"not null;default:'_'"`
	Extension   string    `gorm:"not null;default:''"`
	NotifyEmail *string   `gorm:"column:notify_email"`
	IsDeleted   bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

type ConvertProperty struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	ConvertFilesID int64     `gorm:"column:convert_files_id;index;not null"`
	Title          string    `gorm:"not null"`
	FieldName      string    `gorm:"not null"`
	FieldType      FieldType `gorm:"type:text;not null"`
	Format         string    `gorm:"not null;default:''"`
	Prefix         string    `gorm:"not null;default:''"`
	Suffix         string    `gorm:"not null;default:''"`
	Priority       int       `gorm:"not null"`
	IsDeleted      bool      `gorm:"not null;default:false"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (p ConvertProperty) Record() priority.Record {
	return priority.Record{
		ID:        p.ID,
		ParentID:  p.ConvertFilesID,
		Priority:  p.Priority,
		IsDeleted: p.IsDeleted,
	}
}

type ListFilter struct {
	Query          string
	IncludeDeleted bool
	Limit          int
	Offset         int
}

type PropertyView struct {
	Property    ConvertProperty
	CanMoveUp   bool
	CanMoveDown bool
}

type PriorityReport struct {
	ConvertFileID int64                `json:"convert_file_id"`
	IsValid       bool                 `json:"is_valid"`
	Duplicates    []priority.Duplicate `json:"duplicates"`
	Used          []int                `json:"used"`
	NextAvailable int                  `json:"next_available"`
	NextPriority  int                  `json:"next_priority"`
	ActiveCount   int                  `json:"active_count"`
	DeletedCount  int                  `json:"deleted_count"`
}

type CreateConvertFileInput struct {
	Title       string
	Separator   *string
	Extension   string
	NotifyEmail *string
}

type UpdateConvertFileInput struct {
	ID          int64
	Title       *string
	Separator   *string
	Extension   *string
	NotifyEmail *string
}

type CreatePropertyInput struct {
	ConvertFileID int64
	Title         string
	FieldName     string
	FieldType     FieldType
	Format        string
	Prefix        string
	Suffix        string
}

type UpdatePropertyInput struct {
	ID            int64
	ConvertFileID int64
	Title         *string
	FieldName     *string
	FieldType     *FieldType
	Format        *string
	Prefix        *string
	Suffix        *string
}
