package engine

import (
	"errors"
	"testing"

	"github.com/piwi3910/blockpaint/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_RejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(
		model.Block{Name: "a", Rect: model.NewRect(0, 0, 1, 1)},
		model.Block{Name: "a", Rect: model.NewRect(1, 0, 2, 1)},
	)
	assert.Error(t, err)
}

func TestRegistry_InsertRemove(t *testing.T) {
	reg, err := NewRegistry(model.Block{Name: "0", Rect: model.NewRect(0, 0, 10, 10)})
	require.NoError(t, err)

	h, ok := reg.Lookup("0")
	require.True(t, ok)
	parts, err := reg.at(h).CutX(4)
	require.NoError(t, err)
	reg.remove(h)
	for _, p := range parts {
		reg.insert(p)
	}

	assert.Equal(t, 2, reg.Len())
	_, ok = reg.Get("0")
	assert.False(t, ok)
	b, ok := reg.Get("0.1")
	require.True(t, ok)
	assert.Equal(t, model.NewRect(4, 0, 10, 10), b.Rect)
	assert.Equal(t, 100, reg.Area())
	assert.NoError(t, reg.CheckPartition(model.Canvas{Width: 10, Height: 10}))
	assert.Len(t, reg.Map(), 2)
}

func TestRegistry_ResolveUnknown(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	_, err = reg.resolve("x")
	assert.True(t, errors.Is(err, model.ErrUnknownBlock))
}

func TestRegistry_NextMergeName(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)
	assert.Equal(t, "0", reg.nextMergeName())

	reg, err = NewRegistry(
		model.Block{Name: "3.1", Rect: model.NewRect(0, 0, 1, 1)},
		model.Block{Name: "12", Rect: model.NewRect(1, 0, 2, 1)},
		model.Block{Name: "bg", Rect: model.NewRect(2, 0, 3, 1)},
	)
	require.NoError(t, err)
	assert.Equal(t, "13", reg.nextMergeName())
}

func TestRegistry_CheckPartition(t *testing.T) {
	c := model.Canvas{Width: 10, Height: 10}
	tests := []struct {
		name   string
		blocks []model.Block
		ok     bool
	}{
		{"full", []model.Block{{Name: "0", Rect: model.NewRect(0, 0, 10, 10)}}, true},
		{"gap", []model.Block{{Name: "0", Rect: model.NewRect(0, 0, 5, 10)}}, false},
		{"overlap", []model.Block{
			{Name: "0", Rect: model.NewRect(0, 0, 6, 10)},
			{Name: "1", Rect: model.NewRect(4, 0, 10, 10)},
		}, false},
		{"outside", []model.Block{{Name: "0", Rect: model.NewRect(0, 0, 10, 11)}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := NewRegistry(tt.blocks...)
			require.NoError(t, err)
			err = reg.CheckPartition(c)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestLessName(t *testing.T) {
	assert.True(t, LessName("2", "10"))
	assert.True(t, LessName("0.9", "0.10"))
	assert.True(t, LessName("0", "0.0"))
	assert.True(t, LessName("A", "B"))
	assert.False(t, LessName("0.1", "0.0.3"))
}

func TestSortBlocks(t *testing.T) {
	blocks := []model.Block{{Name: "10"}, {Name: "0.1"}, {Name: "2"}, {Name: "0.0.1"}}
	SortBlocks(blocks)
	assert.Equal(t, []string{"0.0.1", "0.1", "2", "10"}, names(blocks))
}
