package heapcore

import (
	"math"
	"testing"

	"github.com/cznic/mathutil"
	"github.com/stretchr/testify/require"
)

func newImplicit(t *testing.T, capacity int) (*Implicit, []byte) {
	t.Helper()
	region := make([]byte, capacity)
	im := &Implicit{}
	require.True(t, im.Init(region))
	return im, region
}

// S1 from spec.md §8.
func TestImplicitSeedS1(t *testing.T) {
	im, _ := newImplicit(t, 128)
	require.True(t, im.Validate())
	require.Equal(t, 120, im.Stats().BytesFree)

	p1 := im.Allocate(24)
	require.NotNil(t, p1)
	require.Equal(t, 24, len(p1))

	st := im.Stats()
	require.Equal(t, 2, st.Blocks)
	require.Equal(t, 24, st.BytesUsed)
	require.Equal(t, 88, st.BytesFree)

	// The implicit variant never coalesces (spec.md §4.6): freeing p1
	// leaves two free blocks rather than merging back into one.
	im.Free(p1)
	st = im.Stats()
	require.Equal(t, 2, st.Blocks)
	require.Equal(t, 0, st.BytesUsed)
	require.Equal(t, 112, st.BytesFree)
}

// S6: allocate until exhaustion.
func TestImplicitExhaustion(t *testing.T) {
	im, _ := newImplicit(t, 128)
	var got [][]byte
	for {
		p := im.Allocate(16)
		if p == nil {
			break
		}
		got = append(got, p)
	}
	require.NotEmpty(t, got)
	require.Nil(t, im.Allocate(1))
	require.True(t, im.Validate())
}

func TestImplicitRejectsInvalidRequest(t *testing.T) {
	im, _ := newImplicit(t, 128)
	require.Nil(t, im.Allocate(0))
	require.Nil(t, im.Allocate(DefaultMaxRequestSize+1))
}

func TestImplicitInitRejectsTooSmall(t *testing.T) {
	var im Implicit
	require.False(t, im.Init(make([]byte, headerSize-1)))
}

// Property 6 & 7: realloc preserves overlap and shrink-or-equal
// returns the same pointer.
func TestImplicitReallocPreservesData(t *testing.T) {
	im, _ := newImplicit(t, 256)
	p := im.Allocate(16)
	for i := range p {
		p[i] = byte(i + 1)
	}

	q := im.Reallocate(p, 8)
	require.Same(t, &p[0], &q[0], "shrink-or-equal must return the same pointer")

	r := im.Reallocate(p, 40)
	require.NotNil(t, r)
	for i := 0; i < 16; i++ {
		require.Equal(t, byte(i+1), r[i])
	}
	require.True(t, im.Validate())
}

// S5: reallocate(nil, n) == allocate(n); reallocate(p, 0) frees and
// returns nil.
func TestImplicitReallocNullAndZero(t *testing.T) {
	im, _ := newImplicit(t, 128)
	p := im.Reallocate(nil, 32)
	require.Equal(t, 32, len(p))

	q := im.Reallocate(p, 0)
	require.Nil(t, q)
	// The implicit variant does not coalesce, so the freed block and the
	// tail split off by the allocation remain two blocks.
	require.Equal(t, 2, im.Stats().Blocks)
}

func TestImplicitFreeNilIsNoop(t *testing.T) {
	im, _ := newImplicit(t, 128)
	im.Free(nil)
	require.True(t, im.Validate())
}

// Randomized stress, grounded on cznic/memory's test1 (all_test.go),
// reusing the teacher's exact PRNG dependency and seed but retargeted
// at a fixed-capacity region instead of OS-backed pages.
func TestImplicitStress(t *testing.T) {
	const capacity = 1 << 16
	im, _ := newImplicit(t, capacity)
	rng, err := mathutil.NewFC32(0, math.MaxInt32, true)
	require.NoError(t, err)
	rng.Seed(7)

	var live [][]byte
	for i := 0; i < 500; i++ {
		switch rng.Next() % 3 {
		case 0, 1:
			size := rng.Next()%200 + 1
			p := im.Allocate(size)
			if p == nil {
				continue
			}
			for j := range p {
				p[j] = byte(rng.Next())
			}
			live = append(live, p)
		default:
			if len(live) == 0 {
				continue
			}
			idx := rng.Next() % len(live)
			im.Free(live[idx])
			live = append(live[:idx], live[idx+1:]...)
		}
		require.True(t, im.Validate())
	}
	for _, p := range live {
		im.Free(p)
	}
	require.True(t, im.Validate())
	st := im.Stats()
	require.Equal(t, 0, st.BytesUsed)
	require.Equal(t, capacity-headerSize*st.Blocks, st.BytesFree)
}
