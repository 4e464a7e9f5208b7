package conversion

import (
	"context"
	"strings"
	"time"

	"convert-files-go/internal/domain/priority"
)

const defaultSeparator = "_"

type Service struct {
	repo     Repository
	cache    ConvertFileCache
	cacheTTL time.Duration
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, cache: noopConvertFileCache{}}
}

// WithCache serves convert file lookups from cache for ttl.
func (s *Service) WithCache(cache ConvertFileCache, ttl time.Duration) *Service {
	if cache == nil || ttl <= 0 {
		s.cache = noopConvertFileCache{}
		s.cacheTTL = 0
		return s
	}
	s.cache = cache
	s.cacheTTL = ttl
	return s
}

func (s *Service) ListConvertFiles(ctx context.Context, filter ListFilter) ([]ConvertFile, int64, error) {
	files, total, err := s.repo.ListConvertFiles(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if files == nil {
		files = []ConvertFile{}
	}
	return files, total, nil
}

func (s *Service) GetConvertFile(ctx context.Context, id int64) (*ConvertFile, error) {
	if file, ok := s.cache.Get(id); ok {
		return file, nil
	}
	file, err := s.repo.GetConvertFileByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(file, s.cacheTTL)
	return file, nil
}

func (s *Service) CreateConvertFile(ctx context.Context, input CreateConvertFileInput) (*ConvertFile, error) {
	file := ConvertFile{
		Title:     strings.TrimSpace(input.Title),
		Separator: defaultSeparator,
		Extension: strings.TrimSpace(input.Extension),
	}
	if input.Separator != nil {
		file.Separator = *input.Separator
	}
	file.NotifyEmail = normalizeEmail(input.NotifyEmail)

	if err := validateConvertFile(&file); err != nil {
		return nil, err
	}
	if err := s.repo.CreateConvertFile(ctx, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

func (s *Service) UpdateConvertFile(ctx context.Context, input UpdateConvertFileInput) (*ConvertFile, error) {
	if input.Title == nil && input.Separator == nil && input.Extension == nil && input.NotifyEmail == nil {
		return nil, ErrNoFieldsToUpdate
	}

	file, err := s.repo.GetConvertFileByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		file.Title = strings.TrimSpace(*input.Title)
	}
	if input.Separator != nil {
		file.Separator = *input.Separator
	}
	if input.Extension != nil {
		file.Extension = strings.TrimSpace(*input.Extension)
	}
	if input.NotifyEmail != nil {
		file.NotifyEmail = normalizeEmail(input.NotifyEmail)
	}

	if err := validateConvertFile(file); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateConvertFile(ctx, file); err != nil {
		return nil, err
	}
	s.cache.Delete(file.ID)
	return file, nil
}

// ListProperties returns the convert file's properties in priority order with
// the moves the UI may offer for each.
func (s *Service) ListProperties(ctx context.Context, convertFileID int64, includeDeleted bool) ([]PropertyView, error) {
	if _, err := s.GetConvertFile(ctx, convertFileID); err != nil {
		return nil, err
	}

	properties, err := s.repo.ListProperties(ctx, convertFileID)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]ConvertProperty, len(properties))
	for _, property := range properties {
		byID[property.ID] = property
	}
	records := toRecords(properties)

	result := make([]PropertyView, 0, len(properties))
	for _, record := range priority.SortByPriority(records) {
		if record.IsDeleted && !includeDeleted {
			continue
		}
		result = append(result, PropertyView{
			Property:    byID[record.ID],
			CanMoveUp:   priority.CanMoveUp(records, record.ID, convertFileID),
			CanMoveDown: priority.CanMoveDown(records, record.ID, convertFileID),
		})
	}
	return result, nil
}

func (s *Service) CreateProperty(ctx context.Context, input CreatePropertyInput) (*ConvertProperty, error) {
	property := ConvertProperty{
		ConvertFilesID: input.ConvertFileID,
		Title:          strings.TrimSpace(input.Title),
		FieldName:      strings.TrimSpace(input.FieldName),
		FieldType:      input.FieldType,
		Format:         strings.TrimSpace(input.Format),
		Prefix:         input.Prefix,
		Suffix:         input.Suffix,
	}
	if property.FieldType == "" {
		property.FieldType = FieldTypeText
	}
	if err := validateProperty(&property); err != nil {
		return nil, err
	}

	if _, err := s.GetConvertFile(ctx, input.ConvertFileID); err != nil {
		return nil, err
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.LockConvertFile(ctx, input.ConvertFileID); err != nil {
			return err
		}
		siblings, err := tx.ListProperties(ctx, input.ConvertFileID)
		if err != nil {
			return err
		}
		property.Priority = priority.NextPriority(toRecords(siblings), input.ConvertFileID)
		return tx.CreateProperty(ctx, &property)
	})
	if err != nil {
		return nil, err
	}

	return &property, nil
}

func (s *Service) UpdateProperty(ctx context.Context, input UpdatePropertyInput) (*ConvertProperty, error) {
	if input.Title == nil && input.FieldName == nil && input.FieldType == nil &&
		input.Format == nil && input.Prefix == nil && input.Suffix == nil {
		return nil, ErrNoFieldsToUpdate
	}

	property, err := s.repo.GetPropertyByID(ctx, input.ConvertFileID, input.ID)
	if err != nil {
		return nil, err
	}
	if property.IsDeleted {
		return nil, ErrPropertyNotFound
	}

	if input.Title != nil {
		property.Title = strings.TrimSpace(*input.Title)
	}
	if input.FieldName != nil {
		property.FieldName = strings.TrimSpace(*input.FieldName)
	}
	if input.FieldType != nil {
		property.FieldType = *input.FieldType
	}
	if input.Format != nil {
		property.Format = strings.TrimSpace(*input.Format)
	}
	if input.Prefix != nil {
		property.Prefix = *input.Prefix
	}
	if input.Suffix != nil {
		property.Suffix = *input.Suffix
	}

	if err := validateProperty(property); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateProperty(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

// DeleteProperty soft-deletes the property and compacts the priorities of
// the remaining active properties. It returns the compaction updates.
func (s *Service) DeleteProperty(ctx context.Context, convertFileID, id int64) ([]priority.Update, error) {
	var updates []priority.Update
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.LockConvertFile(ctx, convertFileID); err != nil {
			return err
		}
		deleted, err := tx.SoftDeleteProperty(ctx, convertFileID, id)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrPropertyNotFound
		}

		updates, err = normalize(ctx, tx, convertFileID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updates, nil
}

// MoveProperty swaps the property with its neighbour. A property that is
// already first (or last) yields no updates and no error.
func (s *Service) MoveProperty(ctx context.Context, convertFileID, id int64, direction Direction) ([]priority.Update, error) {
	var updates []priority.Update
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.LockConvertFile(ctx, convertFileID); err != nil {
			return err
		}
		property, err := tx.GetPropertyByID(ctx, convertFileID, id)
		if err != nil {
			return err
		}
		if property.IsDeleted {
			return ErrPropertyNotFound
		}
		properties, err := tx.ListProperties(ctx, convertFileID)
		if err != nil {
			return err
		}

		records := toRecords(properties)
		if direction == DirectionDown {
			_, updates = priority.MoveDown(records, id)
		} else {
			_, updates = priority.MoveUp(records, id)
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.ApplyPriorityUpdates(ctx, updates)
	})
	if err != nil {
		return nil, err
	}
	return updates, nil
}

func (s *Service) NormalizeProperties(ctx context.Context, convertFileID int64) ([]priority.Update, error) {
	if _, err := s.GetConvertFile(ctx, convertFileID); err != nil {
		return nil, err
	}

	var updates []priority.Update
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.LockConvertFile(ctx, convertFileID); err != nil {
			return err
		}
		var err error
		updates, err = normalize(ctx, tx, convertFileID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updates, nil
}

func (s *Service) ValidatePriorities(ctx context.Context, convertFileID int64) (*PriorityReport, error) {
	if _, err := s.GetConvertFile(ctx, convertFileID); err != nil {
		return nil, err
	}

	properties, err := s.repo.ListProperties(ctx, convertFileID)
	if err != nil {
		return nil, err
	}
	records := toRecords(properties)

	valid, duplicates := priority.ValidateUniqueness(records, convertFileID)
	report := &PriorityReport{
		ConvertFileID: convertFileID,
		IsValid:       valid,
		Duplicates:    duplicates,
		Used:          priority.UsedPriorities(records, convertFileID),
		NextAvailable: priority.NextAvailablePriority(records, convertFileID),
		NextPriority:  priority.NextPriority(records, convertFileID),
	}
	for _, record := range records {
		if record.IsDeleted {
			report.DeletedCount++
		} else {
			report.ActiveCount++
		}
	}
	return report, nil
}

func (s *Service) PreviewFileName(ctx context.Context, convertFileID int64, values map[string]string) (string, error) {
	file, err := s.GetConvertFile(ctx, convertFileID)
	if err != nil {
		return "", err
	}
	properties, err := s.repo.ListProperties(ctx, convertFileID)
	if err != nil {
		return "", err
	}
	return BuildFileName(*file, properties, values)
}

func normalize(ctx context.Context, tx Repository, convertFileID int64) ([]priority.Update, error) {
	properties, err := tx.ListProperties(ctx, convertFileID)
	if err != nil {
		return nil, err
	}
	_, updates := priority.NormalizePriorities(toRecords(properties), convertFileID)
	if len(updates) == 0 {
		return updates, nil
	}
	if err := tx.ApplyPriorityUpdates(ctx, updates); err != nil {
		return nil, err
	}
	return updates, nil
}

func toRecords(properties []ConvertProperty) []priority.Record {
	records := make([]priority.Record, 0, len(properties))
	for _, property := range properties {
		records = append(records, property.Record())
	}
	return records
}

func normalizeEmail(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
