package validator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testWorkshop struct {
	Title     string    `validate:"required,max=200"`
	Level     string    `validate:"required,oneof=Beginner Intermediate Advanced"`
	EventDate time.Time `validate:"required,future"`
	MaxSeats  int       `validate:"required,positive"`
	Email     string    `validate:"omitempty,email"`
}

func validWorkshop() testWorkshop {
	return testWorkshop{
		Title:     "Intro to Pottery",
		Level:     "Beginner",
		EventDate: time.Now().Add(48 * time.Hour),
		MaxSeats:  10,
	}
}

func TestValidateAccepts(t *testing.T) {
	require.NoError(t, Validate(context.Background(), validWorkshop()))
}

func TestValidateRequired(t *testing.T) {
	w := validWorkshop()
	w.Title = ""

	err := Validate(context.Background(), w)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrFieldRequired)
}

func TestValidateOneOf(t *testing.T) {
	w := validWorkshop()
	w.Level = "Wizard"

	err := Validate(context.Background(), w)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrFieldNotAllowed)
}

func TestValidateFutureDate(t *testing.T) {
	w := validWorkshop()
	w.EventDate = time.Now().Add(-time.Hour)

	err := Validate(context.Background(), w)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Date must be in the future")
}

func TestValidatePositive(t *testing.T) {
	w := validWorkshop()
	w.MaxSeats = -3

	err := Validate(context.Background(), w)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Value must be positive")
}

func TestValidateEmail(t *testing.T) {
	w := validWorkshop()
	w.Email = "not-an-address"

	err := Validate(context.Background(), w)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrInvalidEmail)
}
