package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "unique violation", err: &pq.Error{Code: "23505", Constraint: "uq_ad_spend_daily_account_date"}, want: true},
		{name: "unique violation embrulhada", err: fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}), want: true},
		{name: "foreign key", err: &pq.Error{Code: "23503"}, want: false},
		{name: "erro comum", err: errors.New("boom"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err))
		})
	}
}

func TestConstraintName(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: "uq_reconciliations_spend_txn"})
	assert.Equal(t, "uq_reconciliations_spend_txn", ConstraintName(err))
	assert.Equal(t, "", ConstraintName(errors.New("x")))
}
