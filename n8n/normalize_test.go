package n8n

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeArrayWithOutput(t *testing.T) {
	assert.Equal(t, "hi", Normalize(`[{"output":"hi"}]`, true))
}

func TestNormalizeObjectWithOutput(t *testing.T) {
	assert.Equal(t, "hi", Normalize(`{"output":"hi"}`, true))
}

func TestNormalizeArrayFirstItemWins(t *testing.T) {
	assert.Equal(t, "first", Normalize(`[{"output":"first"},{"output":"second"}]`, true))
}

func TestNormalizeEmptyArrayIsUnrecognized(t *testing.T) {
	got := Normalize(`[]`, true)
	assert.True(t, strings.HasPrefix(got, "Format respons n8n tidak dikenali: "))
	assert.Contains(t, got, "[]")
}

func TestNormalizeUnrecognizedShapeEmbedsRawBody(t *testing.T) {
	body := `{"message":"hai"}`
	got := Normalize(body, true)
	assert.Equal(t, "Format respons n8n tidak dikenali: "+body, got)
}

func TestNormalizeNullOutputIsUnrecognized(t *testing.T) {
	got := Normalize(`{"output":null}`, true)
	assert.True(t, strings.HasPrefix(got, "Format respons n8n tidak dikenali: "))
}

func TestNormalizeEmptyOutputIsValidReply(t *testing.T) {
	// A semantically empty reply is not a failure; only malformed bodies
	// trigger the cleanup pass.
	assert.Equal(t, "", Normalize(`{"output":""}`, true))
}

func TestNormalizeNonStringOutput(t *testing.T) {
	assert.Equal(t, `{"text":"hai"}`, Normalize(`{"output":{"text":"hai"}}`, true))
}

func TestNormalizeMalformedBodyGetsCleaned(t *testing.T) {
	// Double-quoted, escaped output the webhook emits when a workflow node
	// stringifies its own JSON.
	got := Normalize(`""hi\nthere""`, true)
	assert.Equal(t, "hi\nthere", got)
}

func TestNormalizeCleanPassRecoversStructure(t *testing.T) {
	// After stripping the outer quotes and unescaping, the body becomes a
	// decodable object again.
	body := `"{\"output\": \"hai\"}` // unbalanced quote keeps the first pass malformed
	got := Normalize(body, true)
	assert.Equal(t, "hai", got)
}

func TestNormalizeEmptyBodyWithSuccess(t *testing.T) {
	assert.Equal(t, EmptyResponseMessage, Normalize("", true))
}

func TestNormalizeFailedCall(t *testing.T) {
	assert.Equal(t, NoResponseMessage, Normalize("ignored", false))
	assert.Equal(t, NoResponseMessage, Normalize("", false))
}

func TestNormalizeIdempotent(t *testing.T) {
	bodies := []string{
		`[{"output":"hi"}]`,
		`{"output":"hi"}`,
		`[]`,
		`""hi\nthere""`,
		``,
		`not json at all`,
	}
	for _, body := range bodies {
		assert.Equal(t, Normalize(body, true), Normalize(body, true), "body %q", body)
	}
}

func TestNormalizePlainTextFallsBackToCleanedText(t *testing.T) {
	assert.Equal(t, "plain text reply", Normalize("plain text reply", true))
}
