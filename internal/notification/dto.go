package notification

import (
	"fmt"

	"github.com/frahmantamala/idea-portal/internal"
)

type MarkReadDTO struct {
	IDs []int64 `json:"ids"`
}

func (dto MarkReadDTO) Validate() error {
	if len(dto.IDs) == 0 {
		return internal.ErrEmptyIDList
	}
	for _, id := range dto.IDs {
		if id <= 0 {
			return internal.NewValidationFieldError("ids", fmt.Sprintf("invalid notification id %d", id), internal.ErrCodeValidationFailed)
		}
	}
	return nil
}
