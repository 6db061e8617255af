package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanMessage(t *testing.T) {
	assert.Equal(t, "<b>hello</b> there", CleanMessage("  <b>hello</b> there \n"))
	assert.Equal(t, "keep reps < 10 and weight > 50kg", CleanMessage("keep reps < 10 and weight > 50kg"))
	assert.Equal(t, "hi", CleanMessage("hi <SCRIPT type=\"text/javascript\">alert(1)</script>"))
	assert.Equal(t, "", CleanMessage("<script>alert(1)</script>   "))
	assert.Equal(t, `<img src="x.png"> nice`, CleanMessage(`<img src="x.png" onerror="alert(1)" onload=go()> nice`))
	assert.Equal(t, "turn on=auto mode", CleanMessage("turn on=auto mode"))
}

func TestSanitizeSearchQuery(t *testing.T) {
	assert.Equal(t, `%100\% fit\_club%`, SanitizeSearchQuery(" 100% fit_club "))
	assert.Len(t, []rune(SanitizeSearchQuery(string(make([]rune, 300)))), 102)
}

func TestEmailHelpers(t *testing.T) {
	assert.Equal(t, "jane@example.com", NormalizeEmail("  Jane@Example.COM "))
	assert.True(t, ValidEmail("jane@example.com"))
	assert.False(t, ValidEmail("Jane <jane@example.com>"))
	assert.False(t, ValidEmail("not-an-email"))
}

func TestRequestID(t *testing.T) {
	assert.Equal(t, "abc-123", RequestID("abc-123"))
	assert.Len(t, RequestID(""), 36)
	long := string(make([]byte, 65))
	assert.NotEqual(t, long, RequestID(long))
}
