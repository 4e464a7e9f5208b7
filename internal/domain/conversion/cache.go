package conversion

import "time"

type ConvertFileCache interface {
	Get(id int64) (*ConvertFile, bool)
	Set(file *ConvertFile, ttl time.Duration)
	Delete(id int64)
}

type noopConvertFileCache struct{}

func (noopConvertFileCache) Get(int64) (*ConvertFile, bool) {
	return nil, false
}

func (noopConvertFileCache) Set(*ConvertFile, time.Duration) {}

func (noopConvertFileCache) Delete(int64) {}
