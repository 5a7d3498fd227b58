package medichain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestIsDuplicateKeyError(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
	assert.True(t, isDuplicateKeyError(dup))

	assert.False(t, isDuplicateKeyError(errors.New("boom")))
	assert.False(t, isDuplicateKeyError(mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 121}}}))
}
