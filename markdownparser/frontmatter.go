package markdownparser

import (
	"fmt"
	"math"
	"strings"

	"github.com/goccy/go-yaml"
)

// Settings are the expansion settings a document may carry in its front matter.
// Zero values mean "not set".
type Settings struct {
	MaxExpansion int
	PreviewLimit int
}

// parseFrontMatter extracts YAML front matter from markdown content
func parseFrontMatter(content string) (map[string]any, string, error) {
	lines := strings.Split(content, "\n")
	if len(lines) < 3 || strings.TrimSpace(lines[0]) != "---" {
		return make(map[string]any), content, nil
	}

	endIndex := -1

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			endIndex = i
			break
		}
	}

	if endIndex == -1 {
		return nil, "", fmt.Errorf("%w: missing closing ---", ErrInvalidFrontMatter)
	}

	var frontMatter map[string]any
	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:endIndex], "\n")), &frontMatter); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidFrontMatter, err)
	}

	if frontMatter == nil {
		frontMatter = make(map[string]any)
	}

	return frontMatter, strings.Join(lines[endIndex+1:], "\n"), nil
}

// countFrontMatterLines counts the number of lines used by front matter
func countFrontMatterLines(content string) int {
	lines := strings.Split(content, "\n")
	if len(lines) < 3 || strings.TrimSpace(lines[0]) != "---" {
		return 0
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return i + 1 // +1 to include the closing ---
		}
	}

	return 0
}

func parseSettings(frontMatter map[string]any) (Settings, error) {
	var settings Settings

	var err error

	settings.MaxExpansion, err = nonNegativeInt(frontMatter, "max_expansion")
	if err != nil {
		return settings, err
	}

	settings.PreviewLimit, err = nonNegativeInt(frontMatter, "preview_limit")
	if err != nil {
		return settings, err
	}

	return settings, nil
}

func nonNegativeInt(frontMatter map[string]any, key string) (int, error) {
	raw, ok := frontMatter[key]
	if !ok || raw == nil {
		return 0, nil
	}

	var n int64

	switch v := raw.(type) {
	case int:
		n = int64(v)
	case int64:
		n = v
	case uint64:
		if v > math.MaxInt32 {
			return 0, fmt.Errorf("%w: %s is too large", ErrInvalidFrontMatter, key)
		}

		n = int64(v)
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidFrontMatter, key)
		}

		n = int64(v)
	default:
		return 0, fmt.Errorf("%w: %s must be an integer, got %T", ErrInvalidFrontMatter, key, raw)
	}

	if n < 0 || n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s must be between 0 and %d", ErrInvalidFrontMatter, key, math.MaxInt32)
	}

	return int(n), nil
}
