package providers

import (
	"fmt"
	"medilens/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors
	}
	if cv.conf.Persistence.Quota < 0 {
		return fmt.Errorf("persistence.quota must not be negative")
	}
	if cv.conf.Gateway.Temperature < 0 || cv.conf.Gateway.Temperature > 2 {
		return fmt.Errorf("gateway.temperature must be within [0, 2]")
	}
	return nil
}
