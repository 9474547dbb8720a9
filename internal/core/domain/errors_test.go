package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedFormat", ErrUnsupportedFormat},
		{"ErrDecode", ErrDecode},
		{"ErrUnreadable", ErrUnreadable},
		{"ErrNoArrows", ErrNoArrows},
		{"ErrNoDiagrams", ErrNoDiagrams},
		{"ErrInference", ErrInference},
		{"ErrUpsample", ErrUpsample},
		{"ErrModelLoad", ErrModelLoad},
		{"ErrOutputDirRequired", ErrOutputDirRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestIsLoadFailure(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"unsupported format", ErrUnsupportedFormat, true},
		{"wrapped decode", fmt.Errorf("load a.png: %w", ErrDecode), true},
		{"missing file", fmt.Errorf("open: %w", ErrNotFound), true},
		{"unreadable file", fmt.Errorf("read a.png: %w", ErrUnreadable), true},
		{"inference failure", ErrInference, false},
		{"no diagrams", ErrNoDiagrams, false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsLoadFailure(tt.err))
		})
	}
}
