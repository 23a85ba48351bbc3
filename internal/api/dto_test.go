package api

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDecodeAndValidateRegister(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantErr   bool
		wantField string
	}{
		{
			name:    "valid",
			body:    `{"name":"alice","email":"alice@example.com","password":"correct horse"}`,
			wantErr: false,
		},
		{
			name:      "missing email",
			body:      `{"name":"alice","password":"correct horse"}`,
			wantErr:   true,
			wantField: "email",
		},
		{
			name:      "bad email",
			body:      `{"name":"alice","email":"nope","password":"correct horse"}`,
			wantErr:   true,
			wantField: "email",
		},
		{
			name:      "short password",
			body:      `{"name":"alice","email":"alice@example.com","password":"short"}`,
			wantErr:   true,
			wantField: "password",
		},
		{
			name:      "short name",
			body:      `{"name":"al","email":"alice@example.com","password":"correct horse"}`,
			wantErr:   true,
			wantField: "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/auth/register", strings.NewReader(tt.body))
			var dst registerRequest
			apiErr := decodeAndValidate(req, &dst)

			if !tt.wantErr {
				if apiErr != nil {
					t.Fatalf("unexpected error: %v", apiErr)
				}
				return
			}

			if apiErr == nil {
				t.Fatal("expected a validation error")
			}
			if apiErr.Code != "VALIDATION_ERROR" {
				t.Fatalf("code: got %q", apiErr.Code)
			}

			// Field names in details must match the json tags the client sent.
			details, ok := apiErr.Details.([]FieldError)
			if !ok {
				t.Fatalf("details type: %T", apiErr.Details)
			}
			found := false
			for _, d := range details {
				if d.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected a detail for field %q, got %+v", tt.wantField, details)
			}
		})
	}
}

func TestDecodeAndValidateMalformedJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"email": `))
	var dst loginRequest
	apiErr := decodeAndValidate(req, &dst)

	if apiErr == nil || apiErr.Code != "BAD_REQUEST" {
		t.Fatalf("expected BAD_REQUEST, got %+v", apiErr)
	}
}

func TestDecodeAndValidateArticleStatus(t *testing.T) {
	req := httptest.NewRequest("POST", "/articles",
		strings.NewReader(`{"title":"Hello World","content":"body","status":"bogus"}`))
	var dst articleCreateRequest
	apiErr := decodeAndValidate(req, &dst)

	if apiErr == nil {
		t.Fatal("expected a validation error for unknown status")
	}
}

func TestDecodeAndValidateTwoFACode(t *testing.T) {
	tests := []struct {
		code    string
		wantErr bool
	}{
		{"123456", false},
		{"12345", true},
		{"abcdef", true},
		{"", true},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("POST", "/auth/2fa/verify",
			strings.NewReader(`{"code":"`+tt.code+`"}`))
		var dst twoFAVerifyRequest
		apiErr := decodeAndValidate(req, &dst)
		if (apiErr != nil) != tt.wantErr {
			t.Errorf("code %q: got err=%v, wantErr=%v", tt.code, apiErr, tt.wantErr)
		}
	}
}
