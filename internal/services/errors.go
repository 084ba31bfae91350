package services

import (
	"errors"

	"github.com/sarkargroup/smd-backend/pkg/response"
	"gorm.io/gorm"
)

var (
	ErrProjectCompleted    = response.NewConflict("Project is Completed. Nothing to Update.")
	ErrEngineerNotValid    = response.NewConflict("Engineer not valid.")
	ErrEquipmentNotStandBy = response.NewConflict("Equipment is not stand by.")
	ErrAccountBlocked      = response.NewForbidden("User is blocked or deleted.")
	ErrPasswordIncorrect   = response.NewUnauthorized("Password incorrect.")
)

// notFound maps gorm.ErrRecordNotFound to a NotFound AppError naming what.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NewNotFound(what + " not found.").Wrap(err)
	}
	return err
}

// duplicate maps a unique constraint violation to a Conflict AppError.
func duplicate(err error, msg string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return response.NewConflict(msg).Wrap(err)
	}
	return err
}
