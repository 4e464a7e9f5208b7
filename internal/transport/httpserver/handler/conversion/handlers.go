package conversion

import (
	conversiondomain "convert-files-go/internal/domain/conversion"
	"convert-files-go/pkg/logger"
)

type Handlers struct {
	Conversion *conversiondomain.Service
	log        logger.Logger
}

func New(conversion *conversiondomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Conversion: conversion,
		log:        log.With("component", "conversion"),
	}
}
