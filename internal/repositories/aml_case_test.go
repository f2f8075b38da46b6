package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "translated duplicate", err: gorm.ErrDuplicatedKey, want: true},
		{name: "wrapped translated duplicate", err: fmt.Errorf("create: %w", gorm.ErrDuplicatedKey), want: true},
		{name: "raw unique violation", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "wrapped raw unique violation", err: fmt.Errorf("create: %w", &pgconn.PgError{Code: "23505"}), want: true},
		{name: "other pg error", err: &pgconn.PgError{Code: "23503"}, want: false},
		{name: "unrelated error", err: errors.New("connection reset"), want: false},
		{name: "record not found", err: gorm.ErrRecordNotFound, want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isDuplicateKey(tt.err))
		})
	}
}
