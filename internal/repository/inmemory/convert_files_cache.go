package inmemory

import (
	"sync"
	"time"

	conversiondomain "convert-files-go/internal/domain/conversion"
)

type InMemoryConvertFileCache struct {
	mu    sync.RWMutex
	items map[int64]convertFileItem
}

type convertFileItem struct {
	value     conversiondomain.ConvertFile
	expiresAt time.Time
}

func NewInMemoryConvertFileCache() *InMemoryConvertFileCache {
	return &InMemoryConvertFileCache{
		items: make(map[int64]convertFileItem),
	}
}

func (c *InMemoryConvertFileCache) Get(id int64) (*conversiondomain.ConvertFile, bool) {
	now := time.Now()

	c.mu.RLock()
	item, ok := c.items[id]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[id]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, id)
		}
		c.mu.Unlock()
		return nil, false
	}

	value := cloneConvertFile(item.value)
	return &value, true
}

func (c *InMemoryConvertFileCache) Set(file *conversiondomain.ConvertFile, ttl time.Duration) {
	if file == nil {
		return
	}
	if ttl <= 0 {
		c.Delete(file.ID)
		return
	}

	c.mu.Lock()
	c.items[file.ID] = convertFileItem{
		value:     cloneConvertFile(*file),
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *InMemoryConvertFileCache) Delete(id int64) {
	c.mu.Lock()
	delete(c.items, id)
	c.mu.Unlock()
}

func (c *InMemoryConvertFileCache) Clear() {
	c.mu.Lock()
	c.items = make(map[int64]convertFileItem)
	c.mu.Unlock()
}

func cloneConvertFile(file conversiondomain.ConvertFile) conversiondomain.ConvertFile {
	if file.NotifyEmail != nil {
		email := *file.NotifyEmail
		file.NotifyEmail = &email
	}
	return file
}
