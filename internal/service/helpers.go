package service

import (
	"context"
	"errors"
	"time"

	"github.com/roksva123/go-bizadmin-backend/internal/apperror"
	"github.com/roksva123/go-bizadmin-backend/internal/events"
	"github.com/roksva123/go-bizadmin-backend/internal/model"
	"github.com/roksva123/go-bizadmin-backend/internal/repository"
)

// Clock returns the current time. Services take one so tests can pin "today".
type Clock func() time.Time

func isNotFound(err error) bool {
	var nf apperror.EntityNotFound
	return errors.As(err, &nf)
}

func isAlreadyExists(err error) bool {
	var ae apperror.EntityAlreadyExists
	return errors.As(err, &ae)
}

// referencedEmployee loads the employee a record points at. A missing
// employee is a problem with the submitted field, not with the URL.
func referencedEmployee(ctx context.Context, store repository.EmployeeStore, id string) (*model.Employee, error) {
	emp, err := store.GetEmployee(ctx, id)
	if isNotFound(err) {
		return nil, model.ValidationErrors{"employee_id": "does not match an existing employee"}
	}
	return emp, err
}

func publish(pub events.Publisher, collection, action, id string, data any) {
	if pub == nil {
		return
	}
	pub.Publish(events.Event{Collection: collection, Action: action, ID: id, Data: data})
}
