package handlers

import (
	"net/url"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"webappmanager/internal/models"
)

var validatorsOnce sync.Once

func registerValidators() {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			_, err := models.ParseRole(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("localpath", func(fl validator.FieldLevel) bool {
			return isLocalPath(fl.Field().String())
		})
	})
}

// validQuery reports whether value satisfies the validator tag.
func validQuery(value, tag string) bool {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return false
	}
	return v.Var(value, tag) == nil
}

// isLocalPath accepts absolute paths on this host only.
func isLocalPath(target string) bool {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, `\`) {
		return false
	}
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

func safeRedirect(target, fallback string) string {
	if isLocalPath(target) {
		return target
	}
	return fallback
}
