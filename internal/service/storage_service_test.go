package service

import (
	"edulearn_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLessonUploadContentType(t *testing.T) {
	cases := []struct {
		filename string
		expected string
	}{
		{"intro.mp4", "video/mp4"},
		{"clip.WEBM", "video/webm"},
		{"handout.pdf", util.MimePDF},
		{"Handout.PDF", util.MimePDF},
		{"notes.bin", util.MimeOctetStream},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, LessonUploadContentType(tc.filename), tc.filename)
	}
}

func TestAllowedLessonUpload(t *testing.T) {
	assert.True(t, AllowedLessonUpload("lecture.mp4"))
	assert.True(t, AllowedLessonUpload("slides.pdf"))
	assert.False(t, AllowedLessonUpload("malware.exe"))
	assert.False(t, AllowedLessonUpload("noextension"))
}
