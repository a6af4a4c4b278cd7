package version

import (
	"testing"
)

func TestRedis(t *testing.T) {
	t.Parallel()

	if len(CacheVersion) != 8 {
		t.Errorf("CacheVersion = `%s`, want 8 characters", CacheVersion)
	}

	cases := map[string]struct {
		content string
		want    string
	}{
		"template": {
			"template:1",
			"memegenius:" + CacheVersion + ":template:1",
		},
		"empty": {
			"",
			"memegenius:" + CacheVersion + ":",
		},
	}

	for intention, testCase := range cases {
		intention, testCase := intention, testCase

		t.Run(intention, func(t *testing.T) {
			t.Parallel()

			if got := Redis(testCase.content); got != testCase.want {
				t.Errorf("Redis() = `%s`, want `%s`", got, testCase.want)
			}
		})
	}
}
