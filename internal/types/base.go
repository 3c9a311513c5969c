package types

import (
  "github.com/google/uuid"
)

// assignID gives a row its primary key on insert when the caller left it empty.
func assignID(id *uuid.UUID) {
  if *id == uuid.Nil {
    *id = uuid.New()
  }
}
