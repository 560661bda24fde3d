package vision

import (
	"fmt"
	"strings"
)

// Describe renders detections as one spoken sentence. Objects are
// grouped by class in first-seen order; the output is deterministic
// for a given input.
func Describe(objects []Object) string {
	if len(objects) == 0 {
		return "I don't see any recognizable objects in the scene."
	}

	counts := make(map[string]int, len(objects))
	var order []string
	for _, o := range objects {
		if counts[o.ClassName] == 0 {
			order = append(order, o.ClassName)
		}
		counts[o.ClassName]++
	}

	phrases := make([]string, 0, len(order))
	for _, class := range order {
		if n := counts[class]; n == 1 {
			phrases = append(phrases, "a "+class)
		} else {
			phrases = append(phrases, fmt.Sprintf("%d %ss", n, class))
		}
	}

	switch len(phrases) {
	case 1:
		return fmt.Sprintf("I can see %s.", phrases[0])
	case 2:
		return fmt.Sprintf("I can see %s and %s.", phrases[0], phrases[1])
	default:
		return fmt.Sprintf("I can see %s, and %s.",
			strings.Join(phrases[:len(phrases)-1], ", "), phrases[len(phrases)-1])
	}
}
