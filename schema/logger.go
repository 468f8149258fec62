package schema

import (
	"go.uber.org/zap"

	podcodec "github.com/wippyai/pod-codec"
)

func logger() *zap.Logger {
	return podcodec.Logger().Named("schema")
}
