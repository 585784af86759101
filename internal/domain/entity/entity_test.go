package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPresentationName(t *testing.T) {
	assert.True(t, IsPresentationName("deck.json"))
	assert.True(t, IsPresentationName(".json"))
	assert.False(t, IsPresentationName("deck.JSON"))
	assert.False(t, IsPresentationName("notes.txt"))
	assert.False(t, IsPresentationName("deck.json.bak"))
}

func TestIsImageName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"x.png", true},
		{"y.PNG", true},
		{"photo.JpEg", true},
		{"anim.gif", true},
		{"pic.webp", true},
		{"logo.svg", true},
		{"old.bmp", true},
		{"z.txt", false},
		{"noext", false},
		{"trailingdot.", false},
		{".png", false},
		{".hidden.png", true},
		{"archive.png.zip", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsImageName(tt.name))
		})
	}
}
