package coach

import (
	"testing"

	"famcoach/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageByIndex(t *testing.T) {
	assert.Nil(t, StageByIndex(-1))
	assert.Nil(t, StageByIndex(10))

	for i := 0; i <= 9; i++ {
		desc := StageByIndex(i)
		require.NotNil(t, desc, "stage %d", i)
		assert.Equal(t, i, desc.Index)
		assert.NotNil(t, desc.New(), "stage %d payload factory", i)
	}
}

func TestNextStage(t *testing.T) {
	tests := []struct {
		name          string
		index         int
		midpointShown bool
		wantNext      int
		wantPrompt    bool
	}{
		{name: "normal advance", index: 1, midpointShown: false, wantNext: 2, wantPrompt: false},
		{name: "midpoint suspends transition", index: 4, midpointShown: false, wantNext: 4, wantPrompt: true},
		{name: "midpoint already shown advances", index: 4, midpointShown: true, wantNext: 5, wantPrompt: false},
		{name: "preferences completes the wizard", index: 9, midpointShown: true, wantNext: model.StageComplete, wantPrompt: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, prompt := NextStage(tt.index, tt.midpointShown)
			assert.Equal(t, tt.wantNext, next)
			assert.Equal(t, tt.wantPrompt, prompt)
		})
	}
}

func TestCanSubmit(t *testing.T) {
	assert.True(t, CanSubmit(0, 0))
	assert.True(t, CanSubmit(1, 0))
	assert.True(t, CanSubmit(3, 5), "resubmitting a completed stage is allowed")
	assert.False(t, CanSubmit(4, 1), "skipping ahead is rejected")
}
