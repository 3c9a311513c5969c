package errs

import (
  "errors"
  "fmt"
  "net/http"
  "testing"
)

func TestKindOfWrapped(t *testing.T) {
  base := NotFound("Profile not found.")
  wrapped := fmt.Errorf("loading profile: %w", base)
  if KindOf(wrapped) != KindNotFound {
    t.Fatalf("expected NOT_FOUND through wrapping, got %s", KindOf(wrapped))
  }
  if KindOf(errors.New("boom")) != KindInternal {
    t.Fatalf("expected plain errors to be INTERNAL")
  }
}

func TestStatusMapping(t *testing.T) {
  cases := map[Kind]int{
    KindValidation:         http.StatusBadRequest,
    KindServiceUnavailable: http.StatusBadRequest,
    KindNotFound:           http.StatusNotFound,
    KindUnauthorized:       http.StatusUnauthorized,
    KindInternal:           http.StatusInternalServerError,
  }
  for kind, want := range cases {
    if got := Status(kind); got != want {
      t.Fatalf("%s: expected %d, got %d", kind, want, got)
    }
  }
}

func TestStatusOfWrappedError(t *testing.T) {
  err := fmt.Errorf("creating order: %w", ServiceUnavailable("Failed to create payment order", errors.New("timeout")))
  if got := StatusOf(err); got != http.StatusBadRequest {
    t.Fatalf("expected 400, got %d", got)
  }
  if got := StatusOf(Unauthorized("Invalid email or password.")); got != http.StatusUnauthorized {
    t.Fatalf("expected 401, got %d", got)
  }
  if got := StatusOf(errors.New("boom")); got != http.StatusInternalServerError {
    t.Fatalf("expected 500 for unclassified errors, got %d", got)
  }
}

func TestServiceUnavailableKeepsCause(t *testing.T) {
  cause := errors.New("gateway timeout")
  err := ServiceUnavailable("Payment gateway unavailable.", cause)
  if !errors.Is(err, cause) {
    t.Fatalf("expected cause to be reachable via errors.Is")
  }
}
