package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForXP(t *testing.T) {
	cases := []struct {
		xp    int
		level int
	}{
		{0, 1},
		{25, 1},
		{999, 1},
		{1000, 2},
		{1999, 2},
		{2000, 3},
		{10000, 11},
		{-5, 1}, // 脏数据兜底
	}

	for _, tc := range cases {
		assert.Equal(t, tc.level, LevelForXP(tc.xp), "xp=%d", tc.xp)
	}
}
