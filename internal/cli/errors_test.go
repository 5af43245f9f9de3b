package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitError(t *testing.T) {
	err := NewExitError(2)

	assert.Equal(t, 2, err.Code)
	assert.Equal(t, "exit status 2", err.Error())
}

func TestIsExitError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOK   bool
	}{
		{name: "nil", err: nil},
		{name: "plain error", err: errors.New("boom")},
		{name: "exit error", err: NewExitError(3), wantCode: 3, wantOK: true},
		{name: "wrapped exit error", err: fmt.Errorf("check: %w", NewExitError(2)), wantCode: 2, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := IsExitError(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}
