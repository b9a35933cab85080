package log

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestWithRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "UUID válido é mantido", incoming: "5b2c6f44-3f7e-4c5e-9f1a-3f1a1c9d0b11", keep: true},
		{name: "valor vazio gera novo ID", incoming: "", keep: false},
		{name: "valor inválido gera novo ID", incoming: "abc-123", keep: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, id := WithRequestID(context.Background(), tt.incoming)

			_, err := uuid.Parse(id)
			assert.NoError(t, err)
			assert.Equal(t, id, GetRequestID(ctx))

			if tt.keep {
				assert.Equal(t, tt.incoming, id)
			} else {
				assert.NotEqual(t, tt.incoming, id)
			}
		})
	}
}

func TestGetRequestID_EmptyContext(t *testing.T) {
	assert.Equal(t, "", GetRequestID(context.Background()))
}
