package alignment

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlign(t *testing.T) {
	tests := []struct {
		name    string
		a, b    []string
		wantA2B Mapping
		wantB2A Mapping
	}{
		{
			name:    "identical",
			a:       []string{"hello", "world"},
			b:       []string{"hello", "world"},
			wantA2B: Mapping{{0}, {1}},
			wantB2A: Mapping{{0}, {1}},
		},
		{
			name:    "whitespace token elided",
			a:       []string{"a", " ", "b", "\n", "c"},
			b:       []string{"a", "b", "\n", "c"},
			wantA2B: Mapping{{0}, {}, {1}, {}, {3}},
			wantB2A: Mapping{{0}, {2}, {}, {4}},
		},
		{
			name:    "split and merge",
			a:       []string{"New", "York", "-", "based"},
			b:       []string{"NewYork", "-based"},
			wantA2B: Mapping{{0}, {0}, {1}, {1}},
			wantB2A: Mapping{{0, 1}, {2, 3}},
		},
		{
			name:    "case and compatibility forms",
			a:       []string{"Ｆｕｌｌ", "WIDTH"},
			b:       []string{"full", "width"},
			wantA2B: Mapping{{0}, {1}},
			wantB2A: Mapping{{0}, {1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a2b, b2a, err := Align(tt.a, tt.b)
			require.NoError(t, err)
			require.Len(t, a2b, len(tt.a))
			require.Len(t, b2a, len(tt.b))
			for i := range tt.wantA2B {
				assert.Equal(t, []int(tt.wantA2B[i]), nonNil(a2b[i]), "a2b[%d]", i)
			}
			for i := range tt.wantB2A {
				assert.Equal(t, []int(tt.wantB2A[i]), nonNil(b2a[i]), "b2a[%d]", i)
			}
			require.NoError(t, a2b.Validate(len(tt.b)))
			require.NoError(t, b2a.Validate(len(tt.a)))
		})
	}
}

func nonNil(s []int) []int {
	if s == nil {
		return []int{}
	}
	return s
}

func TestAlignNotEquivalent(t *testing.T) {
	_, _, err := Align([]string{"abc"}, []string{"abd"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotEquivalent))

	_, _, err = Align([]string{"abc"}, []string{"ab"})
	assert.True(t, errors.Is(err, ErrNotEquivalent))
}

func TestMappingValidate(t *testing.T) {
	assert.NoError(t, Mapping{{0}, {}, {1, 2}}.Validate(3))
	assert.Error(t, Mapping{{0}, {3}}.Validate(3))
	assert.Error(t, Mapping{{1, 1}}.Validate(3))
	assert.Error(t, Mapping{{-1}}.Validate(3))
	assert.Equal(t, []int{1, 3}, Mapping{{0}, {}, {1}, {}}.Elided())
}
