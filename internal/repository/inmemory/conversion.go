package inmemory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	conversiondomain "convert-files-go/internal/domain/conversion"
	"convert-files-go/internal/domain/priority"
)

// ConversionRepository keeps convert files and their properties in memory.
// Writes are serialized; a transaction rolls back to a snapshot when fn
// fails.
type ConversionRepository struct {
	txMu  sync.Mutex
	state *conversionState
}

type conversionState struct {
	mu         sync.RWMutex
	files      map[int64]conversiondomain.ConvertFile
	properties map[int64]conversiondomain.ConvertProperty
	lastID     int64
}

func NewConversionRepository() *ConversionRepository {
	return &ConversionRepository{
		state: &conversionState{
			files:      make(map[int64]conversiondomain.ConvertFile),
			properties: make(map[int64]conversiondomain.ConvertProperty),
		},
	}
}

func (r *ConversionRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *ConversionRepository) Transaction(ctx context.Context, fn func(conversiondomain.Repository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	s := r.state
	s.mu.RLock()
	files := maps.Clone(s.files)
	properties := maps.Clone(s.properties)
	lastID := s.lastID
	s.mu.RUnlock()

	if err := fn(&conversionTx{state: s}); err != nil {
		s.mu.Lock()
		s.files = files
		s.properties = properties
		s.lastID = lastID
		s.mu.Unlock()
		return err
	}
	return nil
}

// LockConvertFile is a no-op outside a transaction; transactions are
// already serialized.
func (r *ConversionRepository) LockConvertFile(ctx context.Context, convertFileID int64) error {
	return nil
}

func (r *ConversionRepository) ListConvertFiles(ctx context.Context, filter conversiondomain.ListFilter) ([]conversiondomain.ConvertFile, int64, error) {
	return r.state.listConvertFiles(filter)
}

func (r *ConversionRepository) GetConvertFileByID(ctx context.Context, id int64) (*conversiondomain.ConvertFile, error) {
	return r.state.getConvertFile(id)
}

func (r *ConversionRepository) CreateConvertFile(ctx context.Context, file *conversiondomain.ConvertFile) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	return r.state.createConvertFile(file)
}

func (r *ConversionRepository) UpdateConvertFile(ctx context.Context, file *conversiondomain.ConvertFile) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	return r.state.updateConvertFile(file)
}

func (r *ConversionRepository) ListProperties(ctx context.Context, convertFileID int64) ([]conversiondomain.ConvertProperty, error) {
	return r.state.listProperties(convertFileID), nil
}

func (r *ConversionRepository) GetPropertyByID(ctx context.Context, convertFileID, id int64) (*conversiondomain.ConvertProperty, error) {
	return r.state.getProperty(convertFileID, id)
}

func (r *ConversionRepository) CreateProperty(ctx context.Context, property *conversiondomain.ConvertProperty) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	return r.state.createProperty(property)
}

func (r *ConversionRepository) UpdateProperty(ctx context.Context, property *conversiondomain.ConvertProperty) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	return r.state.updateProperty(property)
}

func (r *ConversionRepository) SoftDeleteProperty(ctx context.Context, convertFileID, id int64) (bool, error) {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	return r.state.softDeleteProperty(convertFileID, id), nil
}

func (r *ConversionRepository) ApplyPriorityUpdates(ctx context.Context, updates []priority.Update) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.state.applyPriorityUpdates(updates)
	return nil
}

// conversionTx is the repository handed to transaction callbacks. It shares
// state with its parent but must not take txMu again.
type conversionTx struct {
	state *conversionState
}

func (t *conversionTx) Transaction(ctx context.Context, fn func(conversiondomain.Repository) error) error {
	return fn(t)
}

func (t *conversionTx) LockConvertFile(ctx context.Context, convertFileID int64) error {
	return nil
}

func (t *conversionTx) ListConvertFiles(ctx context.Context, filter conversiondomain.ListFilter) ([]conversiondomain.ConvertFile, int64, error) {
	return t.state.listConvertFiles(filter)
}

func (t *conversionTx) GetConvertFileByID(ctx context.Context, id int64) (*conversiondomain.ConvertFile, error) {
	return t.state.getConvertFile(id)
}

func (t *conversionTx) CreateConvertFile(ctx context.Context, file *conversiondomain.ConvertFile) error {
	return t.state.createConvertFile(file)
}

func (t *conversionTx) UpdateConvertFile(ctx context.Context, file *conversiondomain.ConvertFile) error {
	return t.state.updateConvertFile(file)
}

func (t *conversionTx) ListProperties(ctx context.Context, convertFileID int64) ([]conversiondomain.ConvertProperty, error) {
	return t.state.listProperties(convertFileID), nil
}

func (t *conversionTx) GetPropertyByID(ctx context.Context, convertFileID, id int64) (*conversiondomain.ConvertProperty, error) {
	return t.state.getProperty(convertFileID, id)
}

func (t *conversionTx) CreateProperty(ctx context.Context, property *conversiondomain.ConvertProperty) error {
	return t.state.createProperty(property)
}

func (t *conversionTx) UpdateProperty(ctx context.Context, property *conversiondomain.ConvertProperty) error {
	return t.state.updateProperty(property)
}

func (t *conversionTx) SoftDeleteProperty(ctx context.Context, convertFileID, id int64) (bool, error) {
	return t.state.softDeleteProperty(convertFileID, id), nil
}

func (t *conversionTx) ApplyPriorityUpdates(ctx context.Context, updates []priority.Update) error {
	t.state.applyPriorityUpdates(updates)
	return nil
}

func (s *conversionState) listConvertFiles(filter conversiondomain.ListFilter) ([]conversiondomain.ConvertFile, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Query))
	matched := make([]conversiondomain.ConvertFile, 0, len(s.files))
	for _, file := range s.files {
		if file.IsDeleted && !filter.IncludeDeleted {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(file.Title), search) {
			continue
		}
		matched = append(matched, cloneConvertFile(file))
	}
	slices.SortFunc(matched, func(a, b conversiondomain.ConvertFile) int {
		if c := strings.Compare(a.Title, b.Title); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	total := int64(len(matched))
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return []conversiondomain.ConvertFile{}, total, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (s *conversionState) getConvertFile(id int64) (*conversiondomain.ConvertFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, ok := s.files[id]
	if !ok || file.IsDeleted {
		return nil, conversiondomain.ErrConvertFileNotFound
	}
	copied := cloneConvertFile(file)
	return &copied, nil
}

func (s *conversionState) createConvertFile(file *conversiondomain.ConvertFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	now := time.Now().UTC()
	file.ID = s.lastID
	file.CreatedAt = now
	file.UpdatedAt = now
	s.files[file.ID] = cloneConvertFile(*file)
	return nil
}

func (s *conversionState) updateConvertFile(file *conversiondomain.ConvertFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.files[file.ID]
	if !ok || current.IsDeleted {
		return conversiondomain.ErrConvertFileNotFound
	}
	current.Title = file.Title
	current.Separator = file.Separator
	current.Extension = file.Extension
	current.NotifyEmail = file.NotifyEmail
	current.UpdatedAt = time.Now().UTC()
	s.files[file.ID] = cloneConvertFile(current)
	return nil
}

func (s *conversionState) listProperties(convertFileID int64) []conversiondomain.ConvertProperty {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]conversiondomain.ConvertProperty, 0)
	for _, property := range s.properties {
		if property.ConvertFilesID == convertFileID {
			result = append(result, property)
		}
	}
	slices.SortFunc(result, func(a, b conversiondomain.ConvertProperty) int {
		if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return result
}

func (s *conversionState) getProperty(convertFileID, id int64) (*conversiondomain.ConvertProperty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	property, ok := s.properties[id]
	if !ok || property.ConvertFilesID != convertFileID {
		return nil, conversiondomain.ErrPropertyNotFound
	}
	return &property, nil
}

func (s *conversionState) createProperty(property *conversiondomain.ConvertProperty) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	now := time.Now().UTC()
	property.ID = s.lastID
	property.CreatedAt = now
	property.UpdatedAt = now
	s.properties[property.ID] = *property
	return nil
}

func (s *conversionState) updateProperty(property *conversiondomain.ConvertProperty) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.properties[property.ID]
	if !ok || current.ConvertFilesID != property.ConvertFilesID {
		return conversiondomain.ErrPropertyNotFound
	}
	current.Title = property.Title
	current.FieldName = property.FieldName
	current.FieldType = property.FieldType
	current.Format = property.Format
	current.Prefix = property.Prefix
	current.Suffix = property.Suffix
	current.UpdatedAt = time.Now().UTC()
	s.properties[property.ID] = current
	return nil
}

func (s *conversionState) softDeleteProperty(convertFileID, id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	property, ok := s.properties[id]
	if !ok || property.ConvertFilesID != convertFileID || property.IsDeleted {
		return false
	}
	property.IsDeleted = true
	s.properties[id] = property
	return true
}

func (s *conversionState) applyPriorityUpdates(updates []priority.Update) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, update := range updates {
		property, ok := s.properties[update.ID]
		if !ok {
			continue
		}
		property.Priority = update.Priority
		s.properties[update.ID] = property
	}
}
