package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToInt(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    int
		wantErr bool
	}{
		{"Int", 5, 5, false},
		{"Int64", int64(7), 7, false},
		{"Float", 3.0, 3, false},
		{"String", "12", 12, false},
		{"Padded string", " 4 ", 4, false},
		{"Bytes", []byte("9"), 9, false},
		{"Garbage", "abc", 0, true},
		{"Empty", "", 0, true},
		{"Unsupported", struct{}{}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToInt(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "A1", FirstNonEmpty("A1", "B1"))
	assert.Equal(t, "B1", FirstNonEmpty("", "  ", " B1 "))
	assert.Equal(t, "", FirstNonEmpty("", " "))
	assert.Equal(t, "", FirstNonEmpty())
}

func TestCollapseSpace(t *testing.T) {
	assert.Equal(t, "Red Box 20", CollapseSpace("\n  Red   Box\t20 \n"))
	assert.Equal(t, "", CollapseSpace("   "))
}
