// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"inkwell/internal/models"
)

// validate is the shared validator instance. Field names in error details
// come from the json tag so clients see the names they actually sent.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeAndValidate parses the JSON body into dst and runs struct validation.
// Returns nil on success, or an *Error ready to send.
func decodeAndValidate(r *http.Request, dst any) *Error {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return ErrBadRequest("Malformed JSON body")
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make([]FieldError, 0, len(verrs))
			for _, fe := range verrs {
				details = append(details, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
			}
			return ErrValidation("Validation failed", details)
		}
		return ErrBadRequest("Invalid request body")
	}
	return nil
}

// fieldMessage turns a validator tag failure into a human-readable message.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "numeric":
		return "must contain only digits"
	case "hexcolor":
		return "must be a hex color like #1a2b3c"
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type twoFAVerifyRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

type articleCreateRequest struct {
	Title         string               `json:"title" validate:"required,max=200"`
	Content       string               `json:"content" validate:"required"`
	Excerpt       *string              `json:"excerpt" validate:"omitempty,max=500"`
	Tags          []string             `json:"tags" validate:"omitempty,dive,required,max=50"`
	FeaturedImage *string              `json:"featured_image" validate:"omitempty,url"`
	Status        models.ArticleStatus `json:"status" validate:"omitempty,oneof=draft published archived scheduled"`
	PublishedAt   *time.Time           `json:"published_at"`
	CategoryID    *uuid.UUID           `json:"category_id"`
}

// articleUpdateRequest uses pointers so absent fields keep their stored
// values. A nil Tags slice means "unchanged"; an empty one clears the tags.
type articleUpdateRequest struct {
	Title         *string               `json:"title" validate:"omitempty,min=1,max=200"`
	Content       *string               `json:"content" validate:"omitempty,min=1"`
	Excerpt       *string               `json:"excerpt" validate:"omitempty,max=500"`
	Tags          []string              `json:"tags" validate:"omitempty,dive,required,max=50"`
	FeaturedImage *string               `json:"featured_image" validate:"omitempty,url"`
	Status        *models.ArticleStatus `json:"status" validate:"omitempty,oneof=draft published archived scheduled"`
	CategoryID    *uuid.UUID            `json:"category_id"`
}

type categoryCreateRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
}

type categoryUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Color       *string `json:"color" validate:"omitempty,hexcolor"`
}

type commentCreateRequest struct {
	Content   string    `json:"content" validate:"required,max=2000"`
	ArticleID uuid.UUID `json:"article_id" validate:"required"`
}

type commentUpdateRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type userUpdateRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=3,max=50"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type roleUpdateRequest struct {
	Role models.Role `json:"role" validate:"required,oneof=admin viewer"`
}

type createMediaRequest struct {
	URL          string           `json:"url" validate:"required,url"`
	Filename     string           `json:"filename" validate:"required,max=255"`
	OriginalName string           `json:"original_name" validate:"required,max=255"`
	Type         models.MediaType `json:"type" validate:"required,oneof=image video"`
	ArticleID    *uuid.UUID       `json:"article_id"`
}

type moveTempRequest struct {
	ArticleID uuid.UUID `json:"article_id" validate:"required"`
	URLs      []string  `json:"urls" validate:"required,min=1,dive,url"`
}
