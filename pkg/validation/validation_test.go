package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contact struct {
	Name   string `json:"name" validate:"notblank"`
	Email  string `json:"email" validate:"required,email"`
	Mobile string `json:"mobile" validate:"omitempty,mobile"`
}

type form struct {
	RegNo   string  `json:"regNo" validate:"required,regno"`
	Contact contact `json:"contact"`
	Staff   string  `json:"staffEmail" validate:"omitempty,uniemail"`
}

func TestIsMobile(t *testing.T) {
	valid := []string{"0771234567", "771234567", "+94771234567", "94 77 123 4567", "077-123-4567"}
	for _, v := range valid {
		assert.True(t, IsMobile(v), v)
	}
	invalid := []string{"", "0112345678", "07712345", "+1 555 1234567", "abcdefghij"}
	for _, v := range invalid {
		assert.False(t, IsMobile(v), v)
	}
}

func TestIsRegNo(t *testing.T) {
	valid := []string{"E/19/123", "e/19/123", "AG/20/045", "MED/18/1234"}
	for _, v := range valid {
		assert.True(t, IsRegNo(v), v)
	}
	invalid := []string{"", "E19123", "E/2019/123", "ABCD/19/123", "E/19/12"}
	for _, v := range invalid {
		assert.False(t, IsRegNo(v), v)
	}
}

func TestIsUniversityEmail(t *testing.T) {
	SetUniversityDomain("@PDN.ac.lk")
	defer SetUniversityDomain("pdn.ac.lk")

	assert.True(t, IsUniversityEmail("treasurer@pdn.ac.lk"))
	assert.True(t, IsUniversityEmail("lecturer@eng.pdn.ac.lk"))
	assert.False(t, IsUniversityEmail("someone@gmail.com"))
	assert.False(t, IsUniversityEmail("someone@notpdn.ac.lk"))
	assert.False(t, IsUniversityEmail("not-an-email"))
}

func TestStruct_Valid(t *testing.T) {
	err := Struct(form{
		RegNo:   "E/19/123",
		Contact: contact{Name: "Nimal", Email: "nimal@gmail.com", Mobile: "0771234567"},
		Staff:   "treasurer@pdn.ac.lk",
	})
	assert.NoError(t, err)
}

func TestStruct_FieldMessages(t *testing.T) {
	err := Struct(form{
		RegNo:   "19123",
		Contact: contact{Name: "   ", Email: "nope", Mobile: "123"},
		Staff:   "x@gmail.com",
	})
	require.Error(t, err)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "must be a registration number such as E/19/123", verr.Fields["regNo"])
	assert.Equal(t, "this field cannot be blank", verr.Fields["contact.name"])
	assert.Contains(t, verr.Fields["contact.email"], "valid email")
	assert.Equal(t, "must be a valid mobile number such as 0771234567", verr.Fields["contact.mobile"])
	assert.Equal(t, "must be a university email address ending in @pdn.ac.lk", verr.Fields["staffEmail"])
	assert.Contains(t, err.Error(), "contact.email: ")
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("email", "a@b.lk", "required,email"))

	err := Var("mobile", "12", "mobile")
	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "must be a valid mobile number such as 0771234567", verr.Fields["mobile"])
}

func TestError_StableOrder(t *testing.T) {
	e := &Error{Fields: map[string]string{"b": "two", "a": "one"}}
	assert.Equal(t, "a: one; b: two", e.Error())
}
