package handler

import (
	conversiondomain "convert-files-go/internal/domain/conversion"
	commonhandler "convert-files-go/internal/transport/httpserver/handler/common"
	conversionhandler "convert-files-go/internal/transport/httpserver/handler/conversion"
	"convert-files-go/pkg/logger"
)

type Handlers struct {
	Common     *commonhandler.Handlers
	Conversion *conversionhandler.Handlers
}

func New(storage commonhandler.Pinger, conversion *conversiondomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Common:     commonhandler.New(storage, log),
		Conversion: conversionhandler.New(conversion, log),
	}
}
