package services

import "github.com/go-playground/validator/v10"

// validate is the shared request validator. The instance caches struct
// metadata, so one per process is the intended usage.
var validate = validator.New()
