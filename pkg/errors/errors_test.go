package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "this record already exists"},
		{code: CodeReferential, status: http.StatusConflict, publicMsg: "this operation would violate referential integrity"},
		{code: CodeQuota, status: http.StatusForbidden, publicMsg: "plan limit reached", detailsOK: true},
		{code: CodeVerification, status: http.StatusUnprocessableEntity, publicMsg: "license verification failed"},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeDependency, cause, "lookup failed")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("expected wrapped error to unwrap to cause")
	}
	if As(wrapped) == nil {
		t.Fatalf("expected As to find typed error")
	}
}

func TestFromStoreMapsRecordNotFound(t *testing.T) {
	typed := FromStore(gorm.ErrRecordNotFound, "lookup release")
	if typed.Code() != CodeNotFound {
		t.Fatalf("expected not found, got %s", typed.Code())
	}
}

func TestFromStoreMapsSQLStates(t *testing.T) {
	tests := []struct {
		state string
		code  Code
	}{
		{state: "42501", code: CodeForbidden},
		{state: "23505", code: CodeConflict},
		{state: "23503", code: CodeReferential},
		{state: "57014", code: CodeDependency},
	}
	for _, tt := range tests {
		typed := FromStore(&pgconn.PgError{Code: tt.state}, "write release")
		if typed.Code() != tt.code {
			t.Fatalf("state %s expected %s got %s", tt.state, tt.code, typed.Code())
		}
	}
}

func TestFromStorePreservesTypedErrors(t *testing.T) {
	original := New(CodeQuota, "release limit reached")
	if got := FromStore(original, "create release"); got != original {
		t.Fatalf("expected typed error passthrough, got %v", got)
	}
}

func TestFromStoreNil(t *testing.T) {
	if FromStore(nil, "noop") != nil {
		t.Fatal("expected nil for nil error")
	}
}
