// Package validation validates configuration structs and request input.
//
// Struct tag validation uses go-playground/validator; failures come back as
// INVALID_INPUT AppErrors whose details list every failing field.
//
//	type PipelineConfig struct {
//	    Concurrency int `mapstructure:"concurrency" validate:"gte=1,lte=256"`
//	}
//	err := validation.Validate(cfg)
//
// The fluent Validator covers ad-hoc checks on request parameters:
//
//	if err := validation.New().Required("key", key).MaxLength("key", key, 512).Validate(); err != nil {
//	    return err
//	}
package validation
