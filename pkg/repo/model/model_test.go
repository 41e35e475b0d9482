package model

import (
	"testing"

	"github.com/scienceol/labmate/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserHasAccess(t *testing.T) {
	tests := []struct {
		name  string
		user  *User
		level common.AccessLevel
		want  bool
	}{
		{name: "nil user", user: nil, level: common.LevelBasic, want: false},
		{name: "student basic", user: &User{AccessLevel: common.LevelBasic}, level: common.LevelBasic, want: true},
		{name: "student industry", user: &User{AccessLevel: common.LevelBasic}, level: common.LevelIndustry, want: false},
		{name: "manager everything", user: &User{AccessLevel: common.LevelManager}, level: common.LevelManager, want: true},
		{name: "researcher manager", user: &User{AccessLevel: common.LevelResearch}, level: common.LevelManager, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.HasAccess(tt.level))
		})
	}
}

func TestBeforeCreateFillsUUID(t *testing.T) {
	b := &BaseModel{}
	require.NoError(t, b.BeforeCreate(nil))
	assert.False(t, b.UUID.IsNil())
	assert.False(t, b.CreatedAt.IsZero())

	id := b.UUID
	require.NoError(t, b.BeforeCreate(nil))
	assert.Equal(t, id, b.UUID)
}
