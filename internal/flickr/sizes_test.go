package flickr

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-featured-image/internal/models"
)

func TestDimension_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want Dimension
	}{
		{"number", `1024`, 1024},
		{"string", `"1024"`, 1024},
		{"empty_string", `""`, 0},
		{"null", `null`, 0},
		{"junk_string", `"wide"`, 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var d Dimension
			require.NoError(t, json.Unmarshal([]byte(tc.in), &d))
			require.Equal(t, tc.want, d)
		})
	}
}

func TestChooseBestSize_OptimizeSocial(t *testing.T) {
	t.Parallel()

	sizes := []Size{
		{Label: "Large", Width: 1600, Height: 900, Source: "https://img.example/a.jpg", Media: "photo"},
		{Label: "Medium", Width: 800, Height: 600, Source: "https://img.example/b.jpg", Media: "photo"},
		{Label: "Original", Width: 2000, Height: 3000, Source: "https://img.example/c.jpg", Media: "photo"},
	}

	// Широкий горизонтальный кадр важнее абсолютного размера.
	require.Equal(t, "https://img.example/a.jpg", ChooseBestSize(sizes, models.PolicyOptimizeSocial))
}

func TestChooseBestSize_OptimizeSocial_FallbackToLargest(t *testing.T) {
	t.Parallel()

	// Ни один кандидат не проходит порог 1200 по ширине:
	// побеждает просто самый широкий photo-кандидат.
	sizes := []Size{
		{Width: 800, Height: 600, Source: "https://img.example/b.jpg", Media: "photo"},
		{Width: 1024, Height: 768, Source: "https://img.example/m.jpg", Media: "photo"},
	}

	require.Equal(t, "https://img.example/m.jpg", ChooseBestSize(sizes, models.PolicyOptimizeSocial))
}

func TestChooseBestSize_OptimizeSocial_FiltersNonPhoto(t *testing.T) {
	t.Parallel()

	sizes := []Size{
		{Width: 1920, Height: 1080, Source: "https://img.example/v.mp4", Media: "video"},
		{Width: 1280, Height: 720, Source: "", Media: "photo"},
	}

	require.Equal(t, "", ChooseBestSize(sizes, models.PolicyOptimizeSocial))
}

func TestChooseBestSize_LargestAvailable(t *testing.T) {
	t.Parallel()

	sizes := []Size{
		{Width: 1600, Height: 900, Source: "https://img.example/a.jpg", Media: "photo"},
		{Width: 2000, Height: 3000, Source: "https://img.example/c.jpg", Media: "photo"},
		{Width: 800, Height: 600, Source: "https://img.example/b.jpg", Media: "photo"},
	}

	require.Equal(t, "https://img.example/c.jpg", ChooseBestSize(sizes, models.PolicyLargestAvailable))
}

func TestChooseBestSize_Empty(t *testing.T) {
	t.Parallel()

	require.Equal(t, "", ChooseBestSize(nil, models.PolicyOptimizeSocial))
	require.Equal(t, "", ChooseBestSize(nil, models.PolicyLargestAvailable))
}
