package services

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/masterrol/internal/common"
)

// domainErrors pass through the service layer untouched.
var domainErrors = []error{
	common.ErrorValidation,
	common.ErrorNotFound,
	common.ErrorNotFoundOrForbidden,
	common.ErrorConflict,
	common.ErrorInvalidCredential,
	common.ErrorUnauthorized,
	common.ErrorStoreUnavailable,
}

// classify keeps domain errors and folds anything else into
// common.ErrorInternal, keeping the cause in the message for logs.
func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return err
		}
	}
	if errors.Is(err, common.ErrorInternal) {
		return err
	}
	return fmt.Errorf("%w: %v", common.ErrorInternal, err)
}
