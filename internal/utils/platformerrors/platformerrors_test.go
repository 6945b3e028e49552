package platformerrors

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestAsErrorKeepsTypeAcrossLayers(t *testing.T) {
	ctx := context.Background()

	notFound := NewError(ctx, LayerRepository, ErrorTypeNotFound, "message not found", nil, "")
	wrapped := AsError(ctx, LayerDomain, notFound, "failed to select message")
	rewrapped := AsError(ctx, LayerHandler, wrapped, "select failed")

	if !IsErrorType(rewrapped, ErrorTypeNotFound) {
		t.Fatalf("expected not_found to survive wrapping, got %v", rewrapped.Type)
	}
	if rewrapped.Code != notFound.Code {
		t.Errorf("instance code changed across layers: %s != %s", rewrapped.Code, notFound.Code)
	}
	if !errors.Is(rewrapped, notFound) {
		t.Error("wrapped error lost its chain")
	}
}

func TestAsErrorDefaultsToInternal(t *testing.T) {
	err := AsError(context.Background(), LayerRepository, errors.New("disk on fire"), "failed to load tree")
	if err.Type != ErrorTypeInternal {
		t.Errorf("plain errors should classify as internal, got %v", err.Type)
	}
	if err.Code == "" {
		t.Error("expected a generated instance code")
	}
}

func TestErrorTypeToHTTPStatus(t *testing.T) {
	tests := []struct {
		errType ErrorType
		want    int
	}{
		{ErrorTypeNotFound, http.StatusNotFound},
		{ErrorTypeValidation, http.StatusBadRequest},
		{ErrorTypeConflict, http.StatusConflict},
		{ErrorTypeUnauthorized, http.StatusUnauthorized},
		{ErrorTypeDatabaseError, http.StatusInternalServerError},
		{ErrorTypeExternal, http.StatusInternalServerError},
		{ErrorTypeTimeout, http.StatusGatewayTimeout},
		{ErrorType("unknown"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := ErrorTypeToHTTPStatus(tt.errType); got != tt.want {
			t.Errorf("ErrorTypeToHTTPStatus(%s) = %d, want %d", tt.errType, got, tt.want)
		}
	}
}

func TestNewHTTPErrorResponse(t *testing.T) {
	pe := NewError(context.Background(), LayerDomain, ErrorTypeValidation, "sibling 3 already selected", nil, "")
	status, body := NewHTTPErrorResponse(pe)
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	if body.Error.Message != "sibling 3 already selected" {
		t.Errorf("unexpected message %q", body.Error.Message)
	}

	status, body = NewHTTPErrorResponse(errors.New("boom"))
	if status != http.StatusInternalServerError || body.Error.Type != ErrorTypeInternal {
		t.Errorf("plain error should map to 500/internal, got %d/%s", status, body.Error.Type)
	}
}
