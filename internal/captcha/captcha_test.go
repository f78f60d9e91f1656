package captcha

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterAlphanumeric(t *testing.T) {
	assert.Equal(t, "aB3x9Z", filterAlphanumeric(" aB3 x9-Z\n"))
	assert.Equal(t, "", filterAlphanumeric("  \t\n--"))
	assert.Equal(t, "abc123", filterAlphanumeric("abc123"))
}
