package get_resource

import (
	"context"

	"github.com/m04kA/SMC-FieldService/internal/service/resources/models"
)

type ResourceService interface {
	GetByID(ctx context.Context, id int64) (*models.ResourceResponse, error)
	List(ctx context.Context) (*models.ResourceListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
