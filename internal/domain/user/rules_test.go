package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAndValidateEmail(t *testing.T) {
	email := NormalizeEmail("  Staff@Clinic.TEST ")
	assert.Equal(t, "staff@clinic.test", email)
	assert.NoError(t, ValidateEmail(email))

	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("Bob <bob@clinic.test>"))
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword("12345"))
	assert.NoError(t, ValidatePassword("123456"))
}

func TestValidateStatus(t *testing.T) {
	assert.NoError(t, ValidateStatus("active"))
	assert.NoError(t, ValidateStatus("inactive"))
	assert.Error(t, ValidateStatus("banned"))
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret1")
	assert.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, CheckPassword(hash, "secret1"))
	assert.False(t, CheckPassword(hash, "secret2"))
}
