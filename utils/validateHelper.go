package utils

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs the shared validator instance against an input struct
// and folds the first failure into ErrorValidation so callers can match the
// whole class with errors.Is.
func ValidateStruct(input interface{}) error {
	if err := validate.Struct(input); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("%w: field %s failed on %s", ErrorValidation, fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrorValidation, err)
	}
	return nil
}

// check if id exists and belongs to the user, return RecordNotFound error
func ValidateResourceId[T any](ctx context.Context, userId int, id int) error {

	count, err := CountWhere[T](ctx, "user_id = ? AND id = ?", userId, id)
	if err != nil {
		return err
	}
	if count <= 0 {
		return ErrorRecordNotFound
	}
	return nil
}

// check uniqueness of a column value among the user's rows (exceptId = 0 for create)
func ValidateUnique[T any](ctx context.Context, userId int, column string, value interface{}, exceptId int) error {
	var count int64
	var err error
	if exceptId == 0 {
		count, err = CountWhere[T](ctx, "user_id = ? AND "+column+" = ?", userId, value)
	} else {
		count, err = CountWhere[T](ctx, "user_id = ? AND "+column+" = ? AND NOT id = ?", userId, value, exceptId)
	}
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: duplicate %s", ErrorValidation, column)
	}
	return nil
}
