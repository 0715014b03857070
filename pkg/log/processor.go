package log

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/mwantia/fabric/pkg/container"
)

// LoggerTagProcessor fills fields tagged fabric:"logger" with the registered
// LoggerService and fields tagged fabric:"logger:<name>" with a logger
// derived through Named(name).
type LoggerTagProcessor struct{}

func NewLoggerTagProcessor() *LoggerTagProcessor {
	return &LoggerTagProcessor{}
}

// GetPriority places the processor ahead of the default inject processor.
func (ltp *LoggerTagProcessor) GetPriority() int {
	return 50
}

func (ltp *LoggerTagProcessor) CanProcess(value string) bool {
	return strings.EqualFold(value, "logger") || strings.HasPrefix(strings.ToLower(value), "logger:")
}

func (ltp *LoggerTagProcessor) Process(ctx context.Context, sc *container.ServiceContainer, field reflect.StructField, value string) (any, error) {
	ok, resolved := sc.ResolveByType(ctx, reflect.TypeOf((*LoggerService)(nil)).Elem())
	if !ok {
		return nil, fmt.Errorf("no LoggerService registered for field '%s'", field.Name)
	}

	logger, ok := resolved.(LoggerService)
	if !ok {
		return nil, fmt.Errorf("registered logger for field '%s' is a %T", field.Name, resolved)
	}

	_, name, _ := strings.Cut(value, ":")
	if name = strings.TrimSpace(name); name != "" {
		return logger.Named(name), nil
	}
	return logger, nil
}
