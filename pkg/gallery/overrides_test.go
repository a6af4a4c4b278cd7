package gallery

import (
	"reflect"
	"testing"
)

func TestWithOverrides(t *testing.T) {
	t.Parallel()

	base := []Template{
		{ID: "1", Name: "Distracted Boyfriend", URL: "https://i.imgflip.com/1ur9b0.jpg"},
		{ID: "2", Name: "Drake Hotline Bling", URL: "https://i.imgflip.com/30b1gx.jpg"},
	}

	cases := map[string]struct {
		value string
		want  []Template
	}{
		"empty": {
			"",
			base,
		},
		"replace": {
			"2|https://example.com/drake.png",
			[]Template{
				base[0],
				{ID: "2", Name: "Drake Hotline Bling", URL: "https://example.com/drake.png"},
			},
		},
		"append": {
			"doge|https://example.com/doge.jpg",
			append(append([]Template{}, base...), Template{ID: "doge", Name: "doge", URL: "https://example.com/doge.jpg"}),
		},
		"invalid ignored": {
			"nopipe~|https://example.com~1|",
			base,
		},
	}

	for intention, testCase := range cases {
		intention, testCase := intention, testCase

		t.Run(intention, func(t *testing.T) {
			t.Parallel()

			if got := WithOverrides(base, testCase.value); !reflect.DeepEqual(got, testCase.want) {
				t.Errorf("WithOverrides() = %+v, want %+v", got, testCase.want)
			}
		})
	}
}

func TestWithOverridesKeepsInput(t *testing.T) {
	t.Parallel()

	base := []Template{{ID: "1", Name: "Distracted Boyfriend", URL: "https://i.imgflip.com/1ur9b0.jpg"}}

	WithOverrides(base, "1|https://example.com/other.jpg")

	if base[0].URL != "https://i.imgflip.com/1ur9b0.jpg" {
		t.Error("WithOverrides() mutated its input")
	}
}
