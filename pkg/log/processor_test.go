package log

import (
	"context"
	"io"
	"testing"

	"github.com/mwantia/fabric/pkg/container"
	config "github.com/mwantia/notevault/internal/config/server"
)

type taggedService struct {
	Base    LoggerService `fabric:"inject"`
	Plain   LoggerService `fabric:"logger"`
	Records LoggerService `fabric:"logger:store/records"`
}

func TestLoggerTagProcessorInjectsNamedLoggers(t *testing.T) {
	ctx := context.Background()
	logger := NewLoggerServiceWithWriter("notevault", config.LogServerConfig{}, io.Discard)

	sc := container.NewServiceContainer()
	sc.AddTagProcessor(NewLoggerTagProcessor())

	if err := container.Register[*LoggerServiceImpl](sc,
		container.With[LoggerService](),
		container.WithInstance(logger)); err != nil {
		t.Fatalf("register logger: %v", err)
	}
	if err := container.Register[*taggedService](sc); err != nil {
		t.Fatalf("register service: %v", err)
	}

	service, err := container.Resolve[*taggedService](ctx, sc)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if service.Plain != logger {
		t.Fatalf("fabric:\"logger\" must inject the registered logger")
	}
	records, ok := service.Records.(*LoggerServiceImpl)
	if !ok {
		t.Fatalf("unexpected logger type %T", service.Records)
	}
	if records.name != "notevault/store/records" {
		t.Fatalf("named logger = %q, want notevault/store/records", records.name)
	}
}

func TestLoggerTagProcessorWithoutLogger(t *testing.T) {
	sc := container.NewServiceContainer()
	sc.AddTagProcessor(NewLoggerTagProcessor())

	if err := container.Register[*taggedService](sc); err != nil {
		t.Fatalf("register service: %v", err)
	}
	if _, err := container.Resolve[*taggedService](context.Background(), sc); err == nil {
		t.Fatalf("expected an error when no LoggerService is registered")
	}
}
