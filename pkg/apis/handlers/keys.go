package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sukryu/pSite/pkg/errors"
	"github.com/sukryu/pSite/pkg/store/base"
)

// KeyParam is the path parameter every resource route addresses rows by.
const KeyParam = "key"

// KeyFunc turns the :key path parameter into a store key.
type KeyFunc func(c *gin.Context) (base.Key, error)

// IDKey addresses rows by numeric primary key.
func IDKey(c *gin.Context) (base.Key, error) {
	id, err := strconv.ParseUint(c.Param(KeyParam), 10, 64)
	if err != nil || id == 0 {
		return base.Key{}, errors.ErrInvalidInput.WithReason("id must be a positive integer")
	}
	return base.ByID(uint(id)), nil
}

// UUIDKey addresses rows by a UUID primary key.
func UUIDKey(c *gin.Context) (base.Key, error) {
	id, err := uuid.Parse(c.Param(KeyParam))
	if err != nil {
		return base.Key{}, errors.ErrInvalidInput.WithReason("id must be a UUID")
	}
	return base.ByID(id), nil
}

// FieldKey addresses rows by a unique text column such as slug or param.
func FieldKey(column string) KeyFunc {
	return func(c *gin.Context) (base.Key, error) {
		v := c.Param(KeyParam)
		if v == "" {
			return base.Key{}, errors.ErrInvalidInput.WithReason(column + " is required")
		}
		return base.ByField(column, v), nil
	}
}
