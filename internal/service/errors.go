// Package service implements the application's use cases on top of the repositories.
package service

import (
	"errors"

	"cinetheque/internal/models"
	"cinetheque/internal/repository"
)

// translateRepoError maps a data-access error onto an AppError. AppErrors
// pass through unchanged.
func translateRepoError(err error, resource string, id interface{}) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case repository.IsNotFound(err):
		return models.NewNotFoundError(resource, id)
	case errors.Is(err, repository.ErrConflict):
		return models.NewConflictError(err.Error())
	case errors.Is(err, repository.ErrTopicLocked):
		return models.NewValidationError("Topic is locked")
	default:
		return models.NewInternalError(err)
	}
}
