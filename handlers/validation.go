package handlers

import (
	"github.com/Kousuke-irie/chancenmarket-backend/catalog"
	"github.com/Kousuke-irie/chancenmarket-backend/models"
	"github.com/Kousuke-irie/chancenmarket-backend/service"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators binding タグ category / msgtype / offeraction を登録する
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	rules := map[string]validator.Func{
		"category": func(fl validator.FieldLevel) bool {
			return catalog.Exists(fl.Field().String())
		},
		"msgtype": func(fl validator.FieldLevel) bool {
			switch fl.Field().String() {
			case models.MessageText, models.MessageAudio:
				return true
			}
			return false
		},
		"offeraction": func(fl validator.FieldLevel) bool {
			switch fl.Field().String() {
			case service.ActionAccept, service.ActionReject:
				return true
			}
			return false
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}
