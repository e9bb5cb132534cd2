package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewType_String(t *testing.T) {
	assert.Equal(t, "annotate", ViewAnnotate.String())
	assert.Equal(t, "summary", ViewSummary.String())
	assert.Equal(t, "unknown", ViewType(99).String())
}
