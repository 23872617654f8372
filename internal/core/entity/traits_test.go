package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullAddress(t *testing.T) {
	a := Address{
		AddressLine1: "12 School Lane",
		City:         "Springfield",
		PostalCode:   "49007",
		Country:      "US",
	}
	assert.Equal(t, "12 School Lane, Springfield, 49007, US", a.FullAddress())
}

func TestFullAddress_Empty(t *testing.T) {
	var a Address
	assert.Equal(t, "", a.FullAddress())
}

func TestHasRelated(t *testing.T) {
	var r RelatedRef
	assert.False(t, r.HasRelated())

	r.RelatedModel = "student"
	assert.False(t, r.HasRelated())

	r.RelatedObjectID = "abc"
	assert.True(t, r.HasRelated())
}
