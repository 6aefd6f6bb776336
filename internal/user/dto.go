package user

import (
	"github.com/frahmantamala/idea-portal/internal/core/common/validation"
)

type ChangeRoleDTO struct {
	Role string `json:"role"`
}

type ResetPasswordDTO struct {
	Password string `json:"password"`
}

func (dto ResetPasswordDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("password", dto.Password).Required().MinLength(5)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type MessageResponse struct {
	Message string `json:"message"`
}
