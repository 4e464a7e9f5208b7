package conversion

import (
	"context"
	"errors"
	"strings"

	conversiondomain "convert-files-go/internal/domain/conversion"
	"convert-files-go/internal/domain/priority"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(conversiondomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) LockConvertFile(ctx context.Context, convertFileID int64) error {
	return r.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(?)", convertFileID).
		Error
}

func (r *PostgresRepository) ListConvertFiles(ctx context.Context, filter conversiondomain.ListFilter) ([]conversiondomain.ConvertFile, int64, error) {
	query := r.db.WithContext(ctx).Model(&conversiondomain.ConvertFile{})
	if !filter.IncludeDeleted {
		query = query.Where("is_deleted = ?", false)
	}
	search := strings.TrimSpace(filter.Query)
	if search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("title asc, id asc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var files []conversiondomain.ConvertFile
	if err := query.Find(&files).Error; err != nil {
		return nil, 0, err
	}
	return files, total, nil
}

func (r *PostgresRepository) GetConvertFileByID(ctx context.Context, id int64) (*conversiondomain.ConvertFile, error) {
	var file conversiondomain.ConvertFile
	if err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, conversiondomain.ErrConvertFileNotFound
		}
		return nil, err
	}
	return &file, nil
}

func (r *PostgresRepository) CreateConvertFile(ctx context.Context, file *conversiondomain.ConvertFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *PostgresRepository) UpdateConvertFile(ctx context.Context, file *conversiondomain.ConvertFile) error {
	return r.db.WithContext(ctx).
		Model(&conversiondomain.ConvertFile{}).
		Where("id = ?", file.ID).
		Updates(map[string]interface{}{
			"title":        file.Title,
			"separator":    file.Separator,
			"extension":    file.Extension,
			"notify_email": file.NotifyEmail,
		}).Error
}

func (r *PostgresRepository) ListProperties(ctx context.Context, convertFileID int64) ([]conversiondomain.ConvertProperty, error) {
	var properties []conversiondomain.ConvertProperty
	if err := r.db.WithContext(ctx).
		Where("convert_files_id = ?", convertFileID).
		Order("priority asc, id asc").
		Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *PostgresRepository) GetPropertyByID(ctx context.Context, convertFileID, id int64) (*conversiondomain.ConvertProperty, error) {
	var property conversiondomain.ConvertProperty
	if err := r.db.WithContext(ctx).
		Where("convert_files_id = ? AND id = ?", convertFileID, id).
		First(&property).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, conversiondomain.ErrPropertyNotFound
		}
		return nil, err
	}
	return &property, nil
}

func (r *PostgresRepository) CreateProperty(ctx context.Context, property *conversiondomain.ConvertProperty) error {
	return r.db.WithContext(ctx).Create(property).Error
}

func (r *PostgresRepository) UpdateProperty(ctx context.Context, property *conversiondomain.ConvertProperty) error {
	return r.db.WithContext(ctx).
		Model(&conversiondomain.ConvertProperty{}).
		Where("id = ? AND convert_files_id = ?", property.ID, property.ConvertFilesID).
		Updates(map[string]interface{}{
			"title":      property.Title,
			"field_name": property.FieldName,
			"field_type": property.FieldType,
			"format":     property.Format,
			"prefix":     property.Prefix,
			"suffix":     property.Suffix,
		}).Error
}

func (r *PostgresRepository) SoftDeleteProperty(ctx context.Context, convertFileID, id int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&conversiondomain.ConvertProperty{}).
		Where("convert_files_id = ? AND id = ? AND is_deleted = ?", convertFileID, id, false).
		Update("is_deleted", true)
	return result.RowsAffected > 0, result.Error
}

// ApplyPriorityUpdates writes each instruction as is. Priorities carry no
// unique constraint, so the order of the statements does not matter.
func (r *PostgresRepository) ApplyPriorityUpdates(ctx context.Context, updates []priority.Update) error {
	for _, update := range updates {
		if err := r.db.WithContext(ctx).
			Model(&conversiondomain.ConvertProperty{}).
			Where("id = ?", update.ID).
			Update("priority", update.Priority).Error; err != nil {
			return err
		}
	}
	return nil
}
