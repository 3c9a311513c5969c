package handlers

import (
  "net/http"
  "time"

  "github.com/gin-gonic/gin"

  "github.com/serviceconnect/serviceconnect-backend/internal/errs"
  "github.com/serviceconnect/serviceconnect-backend/internal/logger"
  "github.com/serviceconnect/serviceconnect-backend/internal/services"
  "github.com/serviceconnect/serviceconnect-backend/internal/types"
)

const dateLayout = "2006-01-02"

type ProfileHandler struct {
  log               *logger.Logger
  profileService    services.ProfileService
}

func NewProfileHandler(log *logger.Logger, profileService services.ProfileService) *ProfileHandler {
  return &ProfileHandler{log: log.With("handler", "ProfileHandler"), profileService: profileService}
}

type profileRequest struct {
  FullName      *string   `json:"full_name"`
  Address       *string   `json:"address"`
  Email         *string   `json:"email" binding:"omitempty,email"`
  PhoneNumber   *string   `json:"phone_number"`
  DateOfBirth   *string   `json:"date_of_birth"`
  Gender        *string   `json:"gender"`
  HouseName     *string   `json:"house_name"`
  Landmark      *string   `json:"landmark"`
  PinCode       *string   `json:"pin_code"`
  District      *string   `json:"district"`
  State         *string   `json:"state"`
}

func (r profileRequest) input() (services.ProfileInput, error) {
  in := services.ProfileInput{
    FullName:     r.FullName,
    Address:      r.Address,
    Email:        r.Email,
    PhoneNumber:  r.PhoneNumber,
    Gender:       r.Gender,
    HouseName:    r.HouseName,
    Landmark:     r.Landmark,
    PinCode:      r.PinCode,
    District:     r.District,
    State:        r.State,
  }
  if r.DateOfBirth != nil && *r.DateOfBirth != "" {
    dob, err := time.Parse(dateLayout, *r.DateOfBirth)
    if err != nil {
      return in, errs.Field("date_of_birth", "Date has wrong format. Use YYYY-MM-DD.")
    }
    in.DateOfBirth = &dob
  }
  return in, nil
}

func (ph *ProfileHandler) bind(c *gin.Context) (services.ProfileInput, error) {
  var req profileRequest
  if err := bindJSON(c, &req); err != nil {
    return services.ProfileInput{}, err
  }
  return req.input()
}

func (ph *ProfileHandler) Get(c *gin.Context) {
  accountID, err := callerID(c)
  if err != nil {
    respondError(c, ph.log, err)
    return
  }
  profile, err := ph.profileService.Get(c.Request.Context(), accountID)
  if err != nil {
    respondError(c, ph.log, err)
    return
  }
  c.JSON(http.StatusOK, profile)
}

func (ph *ProfileHandler) Create(c *gin.Context) {
  accountID, err := callerID(c)
  if err != nil {
    respondError(c, ph.log, err)
    return
  }
  in, err := ph.bind(c)
  if err != nil {
    respondError(c, ph.log, err)
    return
  }
  profile, err := ph.profileService.Create(c.Request.Context(), accountID, in)
  if err != nil {
    respondError(c, ph.log, err)
    return
  }
  c.JSON(http.StatusCreated, profile)
}

func (ph *ProfileHandler) Replace(c *gin.Context) {
  ph.update(c, true)
}

func (ph *ProfileHandler) Patch(c *gin.Context) {
  ph.update(c, false)
}

func (ph *ProfileHandler) update(c *gin.Context, full bool) {
  accountID, err := callerID(c)
  if err != nil {
    respondError(c, ph.log, err)
    return
  }
  in, err := ph.bind(c)
  if err != nil {
    respondError(c, ph.log, err)
    return
  }
  ctx := c.Request.Context()
  var profile *types.Profile
  if full {
    profile, err = ph.profileService.Replace(ctx, accountID, in)
  } else {
    profile, err = ph.profileService.Patch(ctx, accountID, in)
  }
  if err != nil {
    respondError(c, ph.log, err)
    return
  }
  c.JSON(http.StatusOK, profile)
}

func (ph *ProfileHandler) Delete(c *gin.Context) {
  accountID, err := callerID(c)
  if err != nil {
    respondError(c, ph.log, err)
    return
  }
  if err := ph.profileService.Delete(c.Request.Context(), accountID); err != nil {
    respondError(c, ph.log, err)
    return
  }
  c.Status(http.StatusNoContent)
}
