package errprocess

import (
	"errors"

	"customs_clearance_service/pkg/logger"
)

// Set logs the error message and returns it as an error value.
func Set(errMsg string) error {
	logger.Log.Error(errMsg)
	return errors.New(errMsg)
}
