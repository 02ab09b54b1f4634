package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVideoProbe(t *testing.T) {
	jsonOutput := `{
		"streams": [
			{"codec_type": "audio"},
			{"codec_type": "video", "width": 1280, "height": 720}
		],
		"format": {"duration": "93.5", "size": "1048576", "format_name": "mov,mp4,m4a"}
	}`

	info, err := parseVideoProbe(jsonOutput, 0)
	require.NoError(t, err)

	assert.Equal(t, 93.5, info.Duration)
	assert.Equal(t, 1280, info.Width)
	assert.Equal(t, 720, info.Height)
	assert.Equal(t, "mov", info.Format)
	assert.Equal(t, int64(1048576), info.Size)
}

func TestParseVideoProbeFallbacks(t *testing.T) {
	// 缺失时长和大小时：时长归零，大小取文件实际大小
	info, err := parseVideoProbe(`{"streams": [], "format": {}}`, 2048)
	require.NoError(t, err)

	assert.Equal(t, float64(0), info.Duration)
	assert.Equal(t, int64(2048), info.Size)
	assert.Equal(t, "unknown", info.Format)
}

func TestParseVideoProbeInvalidJSON(t *testing.T) {
	_, err := parseVideoProbe("not json", 0)
	assert.Error(t, err)
}
