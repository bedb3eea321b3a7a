package services

import (
	"fmt"

	"github.com/dmitrijs2005/guardian/internal/common"
	"github.com/dmitrijs2005/guardian/internal/models"
)

var (
	ErrAlertInFlight     = fmt.Errorf("an alert is already active: %w", common.ErrConstraintViolation)
	ErrInvalidTransition = fmt.Errorf("invalid alert transition: %w", common.ErrInvalidArgument)
	ErrInvalidRating     = fmt.Errorf("rating must be within [0, 5]: %w", common.ErrInvalidArgument)
	ErrPayloadTooLarge   = models.ErrPayloadTooLarge
)
