package rest

import (
	"reflect"
	"strings"
	"sync"

	"github.com/dfryer1193/teamdojo/api"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// registerValidations installs the request rules on gin's validator. Field errors
// are reported under their JSON names.
func registerValidations() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(jsonFieldName)
		v.RegisterStructValidation(imageVariantsPaired, api.Image{})
	})
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

// imageVariantsPaired requires every variant blob to come with a content type and
// every content type to come with a blob.
func imageVariantsPaired(sl validator.StructLevel) {
	img := sl.Current().Interface().(api.Image)

	check := func(blob []byte, contentType *string, field, structField string) {
		hasBlob := len(blob) > 0
		hasType := contentType != nil && *contentType != ""
		if hasBlob != hasType {
			sl.ReportError(contentType, field, structField, "paired", "")
		}
	}

	check(img.Small, img.SmallContentType, "smallContentType", "SmallContentType")
	check(img.Medium, img.MediumContentType, "mediumContentType", "MediumContentType")
	check(img.Large, img.LargeContentType, "largeContentType", "LargeContentType")
}

// fieldPath drops the top level struct name from the error namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
