package flickr

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pribylovaa/go-featured-image/internal/models"
)

// socialMinWidth — минимальная ширина «социального» кандидата:
// рекомендация Open Graph для og:image — 1200px по ширине.
const socialMinWidth = 1200

// Dimension — размер стороны изображения в пикселях.
// Flickr отдаёт width/height то числом, то строкой в зависимости от
// размера; UnmarshalJSON принимает оба представления, мусор читается как 0.
type Dimension int

func (d *Dimension) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = 0
		return nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		*d = 0
		return nil
	}

	*d = Dimension(n)
	return nil
}

// Size — один размер фото из ответа flickr.photos.getSizes.
type Size struct {
	Label  string    `json:"label"`
	Width  Dimension `json:"width"`
	Height Dimension `json:"height"`
	Source string    `json:"source"`
	Media  string    `json:"media"`
}

// sizesResponse — конверт ответа Flickr REST API.
// При stat == "fail" заполнены Code и Message.
type sizesResponse struct {
	Sizes struct {
		Size []Size `json:"size"`
	} `json:"sizes"`
	Stat    string `json:"stat"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ChooseBestSize выбирает URL по политике; пустая строка — подходящего нет.
//
// largest_available: все размеры по убыванию ширины, при равенстве — по
// убыванию высоты; берётся первый.
//
// optimize_social (по умолчанию): только media == "photo" с непустым source;
// кандидаты с шириной >= 1200 и width >= height (альбомная или квадратная
// ориентация в «социальном» разрешении) предпочитаются всем прочим;
// внутри одного класса — по убыванию ширины, затем высоты.
func ChooseBestSize(sizes []Size, policy models.SizePolicy) string {
	if len(sizes) == 0 {
		return ""
	}

	if policy == models.PolicyLargestAvailable {
		all := make([]Size, len(sizes))
		copy(all, sizes)

		sort.SliceStable(all, func(i, j int) bool {
			if all[i].Width != all[j].Width {
				return all[i].Width > all[j].Width
			}
			return all[i].Height > all[j].Height
		})

		return all[0].Source
	}

	var candidates []Size
	for _, s := range sizes {
		if s.Media != "photo" || s.Source == "" {
			continue
		}
		candidates = append(candidates, s)
	}

	if len(candidates) == 0 {
		return ""
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		pi, pj := socialTier(candidates[i]), socialTier(candidates[j])
		if pi != pj {
			return pi < pj
		}
		if candidates[i].Width != candidates[j].Width {
			return candidates[i].Width > candidates[j].Width
		}
		return candidates[i].Height > candidates[j].Height
	})

	return candidates[0].Source
}

// socialTier: 0 — «социальный» кандидат, 1 — все остальные.
func socialTier(s Size) int {
	if s.Width >= socialMinWidth && s.Width >= s.Height {
		return 0
	}
	return 1
}
