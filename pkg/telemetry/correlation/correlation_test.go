package correlation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnsureCorrelationIDKeepsExisting(t *testing.T) {
	ctx := ContextWithCorrelationID(context.Background(), "01HQ")
	_, cid := EnsureCorrelationID(ctx)
	assert.Equal(t, "01HQ", cid)

	ctx, generated := EnsureCorrelationID(context.Background())
	assert.Len(t, generated, 26)
	assert.Equal(t, generated, ExtractCorrelationID(ctx))
}

func TestFieldsWithoutSpan(t *testing.T) {
	fields := Fields(ContextWithCorrelationID(context.Background(), "abc"))
	assert.Equal(t, map[string]string{"correlation_id": "abc"}, fields)
}
