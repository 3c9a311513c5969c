package handlers

import (
  "encoding/json"
  "errors"
  "fmt"
  "io"
  "reflect"
  "strings"

  "github.com/gin-gonic/gin"
  "github.com/gin-gonic/gin/binding"
  "github.com/go-playground/validator/v10"
  "github.com/google/uuid"

  "github.com/serviceconnect/serviceconnect-backend/internal/errs"
  "github.com/serviceconnect/serviceconnect-backend/internal/logger"
  "github.com/serviceconnect/serviceconnect-backend/internal/requestdata"
)

// Field errors are reported under their JSON names.
func init() {
  if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
    v.RegisterTagNameFunc(func(f reflect.StructField) string {
      name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
      if name == "-" || name == "" {
        return f.Name
      }
      return name
    })
  }
}

// respondError renders err as {"error", "code", "fields"} with the status of
// its kind. Internal causes are logged and never shown.
func respondError(c *gin.Context, log *logger.Logger, err error) {
  status := errs.StatusOf(err)
  body := gin.H{"code": string(errs.KindOf(err))}

  var e *errs.Error
  if errors.As(err, &e) && e.Kind != errs.KindInternal {
    body["error"] = e.Message
    if len(e.Fields) > 0 {
      body["fields"] = e.Fields
    }
  } else {
    log.Error("Request failed", "path", c.FullPath(), "error", err)
    body["error"] = "Internal server error"
  }
  c.AbortWithStatusJSON(status, body)
}

// bindJSON decodes the body into req and turns binding failures into
// validation errors keyed by JSON field name.
func bindJSON(c *gin.Context, req interface{}) error {
  err := c.ShouldBindJSON(req)
  if err == nil {
    return nil
  }
  var verrs validator.ValidationErrors
  if errors.As(err, &verrs) {
    fields := errs.FieldErrors{}
    for _, fe := range verrs {
      fields.Add(fe.Field(), fieldMessage(fe))
    }
    return errs.ValidationFields(fields)
  }
  var typeErr *json.UnmarshalTypeError
  if errors.As(err, &typeErr) && typeErr.Field != "" {
    return errs.Field(typeErr.Field, "Invalid value.")
  }
  if errors.Is(err, io.EOF) {
    return errs.Validation("Request body is required.")
  }
  return errs.Validation("Invalid request body.")
}

func fieldMessage(fe validator.FieldError) string {
  switch fe.Tag() {
  case "required":
    return "This field is required."
  case "email":
    return "Enter a valid email address."
  case "min":
    return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
  case "max":
    return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
  case "len":
    return fmt.Sprintf("Ensure this field has exactly %s characters.", fe.Param())
  case "uuid":
    return "Must be a valid UUID."
  }
  return fmt.Sprintf("Failed on the '%s' rule.", fe.Tag())
}

// callerID returns the authenticated account, or an Unauthorized error when
// the auth middleware did not run.
func callerID(c *gin.Context) (uuid.UUID, error) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.AccountID == uuid.Nil {
    return uuid.Nil, errs.Unauthorized("Authentication credentials were not provided.")
  }
  return rd.AccountID, nil
}

func pathID(c *gin.Context, notFound string) (uuid.UUID, error) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    return uuid.Nil, errs.NotFound(notFound)
  }
  return id, nil
}
