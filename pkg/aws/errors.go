package aws

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"
)

var (
	ErrStackNotFound        = errors.New("stack not found")
	ErrUnsupportedOperation = errors.New("unsupported operation")
)

// StackNotFoundError is returned when the stack has not been deployed. It still unwraps to the API error
// returned by CloudFormation.
type StackNotFoundError struct {
	StackName string
	Err       error
}

func (e *StackNotFoundError) Error() string {
	return fmt.Sprintf("stack %s does not exist: %v", e.StackName, e.Err)
}

func (e *StackNotFoundError) Is(target error) bool {
	return target == ErrStackNotFound
}

func (e *StackNotFoundError) Unwrap() error {
	return e.Err
}

// asStackNotFound converts CloudFormation's "Stack with id X does not exist" validation error.
func asStackNotFound(stackName string, err error) error {
	var apiErr smithy.APIError
	if err == nil || !errors.As(err, &apiErr) {
		return err
	}
	if apiErr.ErrorCode() == "ValidationError" && strings.Contains(apiErr.ErrorMessage(), "does not exist") {
		return &StackNotFoundError{StackName: stackName, Err: err}
	}
	return err
}
