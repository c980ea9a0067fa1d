package services

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/google/uuid"
)

// seams
var (
	newID = uuid.NewString
	now   = func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }
)

// internalError keeps the cause for logging while classifying the error as
// common.ErrorInternal.
func internalError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", common.ErrorInternal, op, err)
}
